package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"deposit-guard/config"
)

// SendParams décrit la notification envoyée au propriétaire.
type SendParams struct {
	To              string
	LandlordName    string
	TenantName      string
	PropertyAddress string
	ViewURL         string
	PDFPath         string
}

// Mailer est l'interface injectée dans les handlers, les tests la stubbent.
type Mailer interface {
	SendReport(p SendParams) error
}

// SMTPMailer envoie la notification via SMTP avec le PDF en pièce jointe.
// L'envoi est best-effort : un échec ne remet jamais en cause la transition
// du rapport, il est remonté en avertissement.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTP(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.EmailFrom,
	}
}

func (m *SMTPMailer) SendReport(p SendParams) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", p.To)
	msg.SetHeader("Subject", "État des lieux d'entrée")
	msg.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Protection de dépôt de garantie - État des lieux</h2>
			<p>Bonjour %s,</p>
			<p>Votre locataire %s vous a transmis un état des lieux documentant la condition actuelle du logement.</p>
			<p>Pour consulter le rapport, cliquez sur le lien ci-dessous :</p>
			<p><a href="%s" style="display: inline-block; background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Voir le rapport</a></p>
			<p>Ce lien est sécurisé, aucun compte n'est nécessaire pour consulter le rapport.</p>
			<p>Cordialement,</p>
			<p>L'équipe Deposit Guard</p>
		</div>`,
		p.LandlordName, p.TenantName, p.ViewURL))
	msg.Attach(p.PDFPath, gomail.Rename(fmt.Sprintf("Etat_des_lieux_%s.pdf", p.PropertyAddress)))

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(msg)
}
