package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"deposit-guard/models"
)

var propertyTypeLabels = map[string]string{
	"apartment": "Appartement",
	"house":     "Maison",
	"villa":     "Villa",
	"office":    "Bureau",
	"store":     "Commerce",
}

var statusLabels = map[string]string{
	models.StatusDraft:  "Brouillon",
	models.StatusSent:   "Envoyé",
	models.StatusViewed: "Consulté",
}

// GenerateReport assemble le PDF de l'état des lieux : en-tête, bloc rapport,
// bloc bien, notes, puis une section par pièce avec les photos et leurs
// annotations, et les lignes de signature.
func GenerateReport(report *models.Report, property *models.Property, photos []models.Photo, tenant *models.User, photoPath func(filename string) string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle("État des lieux - "+property.Address, true)
	doc.SetAuthor(tenant.Name, true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.SetTextColor(37, 99, 235)
	doc.CellFormat(0, 10, tr("PROTECTION DE DÉPÔT DE GARANTIE"), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 13)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 8, tr("Rapport d'état du logement"), "", 1, "C", false, 0, "")
	doc.Ln(6)

	sectionHeader(doc, tr, "Informations du rapport")
	kvRow(doc, tr, "Type de rapport", reportTypeLabel(report.ReportType))
	kvRow(doc, tr, "Date du rapport", report.ReportDate.Format("02.01.2006"))
	kvRow(doc, tr, "Statut", statusLabels[report.Status])
	doc.Ln(4)

	sectionHeader(doc, tr, "Informations du bien")
	kvRow(doc, tr, "Adresse", property.Address)
	kvRow(doc, tr, "Ville", property.City)
	kvRow(doc, tr, "Type de bien", propertyTypeLabel(property.Type))
	kvRow(doc, tr, "Nombre de pièces", fmt.Sprintf("%d", property.RoomCount))
	kvRow(doc, tr, "Nombre de salles de bain", fmt.Sprintf("%d", property.BathroomCount))
	kvRow(doc, tr, "Locataire", tenant.Name)
	kvRow(doc, tr, "Propriétaire", property.LandlordName)
	doc.Ln(4)

	if report.AdditionalNotes != "" {
		sectionHeader(doc, tr, "Notes complémentaires")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 6, tr(report.AdditionalNotes), "", "L", false)
		doc.Ln(4)
	}

	for _, room := range roomOrder(photos) {
		sectionHeader(doc, tr, room)
		for _, photo := range photos {
			if photo.Room != room {
				continue
			}
			writePhoto(doc, tr, photo, photoPath)
		}
	}

	doc.Ln(14)
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(95, 6, tr("Signature du propriétaire :"), "", 0, "L", false, 0, "")
	doc.CellFormat(95, 6, tr("Signature du locataire :"), "", 1, "L", false, 0, "")
	doc.Ln(10)
	doc.CellFormat(95, 6, "______________________", "", 0, "L", false, 0, "")
	doc.CellFormat(95, 6, "______________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePhoto(doc *fpdf.Fpdf, tr func(string) string, photo models.Photo, photoPath func(string) string) {
	doc.SetFont("Helvetica", "", 10)
	if photo.DamageDescription != "" {
		doc.MultiCell(0, 6, tr("Dégât : "+photo.DamageDescription), "", "L", false)
	}
	if photo.Location != "" {
		kvRow(doc, tr, "Emplacement", photo.Location)
	}
	if len(photo.DamageTypes) > 0 {
		kvRow(doc, tr, "Types de dégâts", strings.Join(photo.DamageTypes, ", "))
	}
	if len(photo.DamageMarks) > 0 {
		kvRow(doc, tr, "Annotations", fmt.Sprintf("%d marquage(s) sur la photo", len(photo.DamageMarks)))
	}

	embedImage(doc, tr, photoPath(photo.Filename))
	doc.Ln(4)
}

// embedImage insère l'image si elle est décodable ; une image corrompue est
// remplacée par une mention, sinon l'erreur resterait collée au document
// entier côté fpdf.
func embedImage(doc *fpdf.Fpdf, tr func(string) string, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		doc.CellFormat(0, 6, tr("(image indisponible)"), "", 1, "L", false, 0, "")
		return
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		doc.CellFormat(0, 6, tr("(image illisible)"), "", 1, "L", false, 0, "")
		return
	}

	width := 150.0
	height := width * float64(cfg.Height) / float64(cfg.Width)
	if height > 110 {
		height = 110
		width = height * float64(cfg.Width) / float64(cfg.Height)
	}

	opts := fpdf.ImageOptions{ImageType: imageType(path)}
	doc.RegisterImageOptionsReader(path, opts, bytes.NewReader(data))
	doc.ImageOptions(path, doc.GetX(), doc.GetY(), width, height, true, opts, 0, "")
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "PNG"
	case ".gif":
		return "GIF"
	default:
		return "JPG"
	}
}

func sectionHeader(doc *fpdf.Fpdf, tr func(string) string, title string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.SetFillColor(229, 231, 235)
	doc.CellFormat(0, 8, tr(title), "", 1, "L", true, 0, "")
	doc.Ln(2)
}

func kvRow(doc *fpdf.Fpdf, tr func(string) string, label, value string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(60, 6, tr(label+" :"), "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
}

func reportTypeLabel(t string) string {
	if t == models.ReportTypeMoveOut {
		return "État des lieux de sortie"
	}
	return "État des lieux d'entrée"
}

func propertyTypeLabel(t string) string {
	if label, ok := propertyTypeLabels[t]; ok {
		return label
	}
	return "Autre"
}

// roomOrder retourne les pièces dans l'ordre de première apparition.
func roomOrder(photos []models.Photo) []string {
	var order []string
	seen := map[string]bool{}
	for _, p := range photos {
		if !seen[p.Room] {
			seen[p.Room] = true
			order = append(order, p.Room)
		}
	}
	return order
}
