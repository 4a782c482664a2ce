package routes

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"deposit-guard/config"
	"deposit-guard/mailer"
	"deposit-guard/middleware"
	"deposit-guard/models"
	"deposit-guard/pdf"
	"deposit-guard/storage"
	"deposit-guard/utils"
)

const (
	maxPhotosPerUpload = 10
	maxPhotoSize       = 5 * 1024 * 1024 // 5 Mo
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

func SetupReportRoutes(app *fiber.App, db *gorm.DB, cfg config.Config, store *storage.Store, mail mailer.Mailer) {
	h := &ReportHandler{db: db, cfg: cfg, store: store, mail: mail}
	authRequired := middleware.JWT([]byte(cfg.JWTSecret))

	app.Post("/api/properties/:propertyId/reports", authRequired, h.create)

	g := app.Group("/api/reports", authRequired)
	g.Get("/", h.list)
	g.Get("/:id", h.get)
	g.Put("/:id", h.update)
	g.Get("/:id/photos", h.listPhotos)
	g.Post("/:id/photos", h.uploadPhotos)
	g.Post("/:id/send", h.send)
}

type ReportHandler struct {
	db    *gorm.DB
	cfg   config.Config
	store *storage.Store
	mail  mailer.Mailer
}

type createReportPayload struct {
	ReportType      string                   `json:"reportType"`
	AdditionalNotes string                   `json:"additionalNotes"`
	Walkthrough     []models.WalkthroughStep `json:"walkthrough"`
}

type updateReportPayload struct {
	AdditionalNotes *string                  `json:"additionalNotes"`
	Walkthrough     []models.WalkthroughStep `json:"walkthrough"`
}

// findOwnedReport charge le rapport seulement si le bien parent appartient à
// l'utilisateur. Un rapport d'autrui répond introuvable, jamais interdit,
// pour ne pas confirmer son existence.
func (h *ReportHandler) findOwnedReport(userID uint, reportID string) (*models.Report, error) {
	var report models.Report
	err := h.db.Joins("JOIN properties ON properties.id = reports.property_id").
		Where("reports.id = ? AND properties.user_id = ?", reportID, userID).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func notFoundOrServerError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rapport introuvable ou accès refusé"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
}

func (h *ReportHandler) create(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var property models.Property
	err := h.db.Where("id = ? AND user_id = ?", c.Params("propertyId"), userID).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bien introuvable ou accès refusé"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}

	var body createReportPayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
		}
	}
	if body.ReportType == "" {
		body.ReportType = models.ReportTypeMoveIn
	}
	if body.ReportType != models.ReportTypeMoveIn && body.ReportType != models.ReportTypeMoveOut {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Type de rapport invalide"})
	}

	token, err := utils.GenerateAccessToken()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur génération du jeton d'accès"})
	}

	report := models.Report{
		PropertyID:      property.ID,
		ReportType:      body.ReportType,
		ReportDate:      time.Now(),
		AccessToken:     token,
		Status:          models.StatusDraft,
		AdditionalNotes: body.AdditionalNotes,
		Walkthrough:     body.Walkthrough,
	}
	if err := h.db.Create(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur création du rapport"})
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) get(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	report, err := h.findOwnedReport(userID, c.Params("id"))
	if err != nil {
		return notFoundOrServerError(c, err)
	}

	if err := h.db.
		Preload("Property").
		Preload("Property.User", selectIdentity).
		First(report, report.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}

	return c.JSON(report)
}

func (h *ReportHandler) list(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var reports []models.Report
	err := h.db.Joins("JOIN properties ON properties.id = reports.property_id").
		Where("properties.user_id = ?", userID).
		Preload("Property").
		Preload("Property.User", selectIdentity).
		Order("reports.created_at DESC").
		Find(&reports).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lecture des rapports"})
	}

	return c.JSON(reports)
}

func (h *ReportHandler) update(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	report, err := h.findOwnedReport(userID, c.Params("id"))
	if err != nil {
		return notFoundOrServerError(c, err)
	}

	var body updateReportPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	updates := map[string]interface{}{}
	if body.AdditionalNotes != nil {
		updates["additional_notes"] = *body.AdditionalNotes
	}
	if body.Walkthrough != nil {
		serialized, err := json.Marshal(body.Walkthrough)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Walkthrough invalide"})
		}
		updates["walkthrough"] = string(serialized)
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Aucun champ à mettre à jour"})
	}

	// mise à jour conditionnelle : le brouillon seul est modifiable
	res := h.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", report.ID, models.StatusDraft).
		Updates(updates)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur mise à jour du rapport"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Seuls les rapports en brouillon peuvent être modifiés."})
	}

	var updated models.Report
	if err := h.db.First(&updated, report.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}
	return c.JSON(updated)
}

func (h *ReportHandler) listPhotos(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	report, err := h.findOwnedReport(userID, c.Params("id"))
	if err != nil {
		return notFoundOrServerError(c, err)
	}

	var photos []models.Photo
	if err := h.db.Where("report_id = ?", report.ID).Find(&photos).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lecture des photos"})
	}
	return c.JSON(photos)
}

func (h *ReportHandler) uploadPhotos(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	report, err := h.findOwnedReport(userID, c.Params("id"))
	if err != nil {
		return notFoundOrServerError(c, err)
	}
	if report.Status != models.StatusDraft {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Les photos ne peuvent être ajoutées qu'à un rapport en brouillon."})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formulaire multipart invalide"})
	}
	files := form.File["photos"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Au moins une photo est requise"})
	}
	if len(files) > maxPhotosPerUpload {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Maximum 10 photos par envoi"})
	}
	for _, fh := range files {
		if fh.Size > maxPhotoSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Chaque fichier doit faire moins de 5 Mo"})
		}
		if !isImageFile(fh) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Seules les images (.jpg, .jpeg, .png, .gif) sont acceptées"})
		}
	}

	room := c.FormValue("room")
	if room == "" {
		room = "Non précisé"
	}
	damageDescription := c.FormValue("damageDescription")
	location := c.FormValue("location")

	var marks []models.DamageMark
	if v := c.FormValue("damageMarks"); v != "" {
		if err := json.Unmarshal([]byte(v), &marks); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "damageMarks invalide"})
		}
	}
	var damageTypes []string
	if v := c.FormValue("damageTypes"); v != "" {
		if err := json.Unmarshal([]byte(v), &damageTypes); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "damageTypes invalide"})
		}
	}

	// Validation terminée : chaque fichier est ensuite persisté
	// indépendamment. Un échec en cours de lot laisse les fichiers déjà
	// écrits en place (limitation connue, pas de rollback).
	created := make([]models.Photo, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Échec de l'enregistrement du fichier"})
		}
		filename, size, err := h.store.SavePhoto(fh.Filename, src)
		src.Close()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Échec de l'enregistrement du fichier"})
		}

		photo := models.Photo{
			ReportID:          report.ID,
			Filename:          filename,
			OriginalName:      fh.Filename,
			Path:              h.store.URL(filename),
			Size:              size,
			Room:              room,
			DamageDescription: damageDescription,
			Location:          location,
			DamageMarks:       marks,
			DamageTypes:       damageTypes,
		}
		if err := h.db.Create(&photo).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Échec de l'enregistrement de la photo"})
		}
		created = append(created, photo)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ReportHandler) send(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	report, err := h.findOwnedReport(userID, c.Params("id"))
	if err != nil {
		return notFoundOrServerError(c, err)
	}

	var photoCount int64
	if err := h.db.Model(&models.Photo{}).Where("report_id = ?", report.ID).Count(&photoCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}
	if photoCount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Impossible d'envoyer un rapport sans photo."})
	}

	var property models.Property
	if err := h.db.First(&property, report.PropertyID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}
	var tenant models.User
	if err := h.db.First(&tenant, userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}
	var photos []models.Photo
	if err := h.db.Where("report_id = ?", report.ID).Find(&photos).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}

	pdfBytes, err := pdf.GenerateReport(report, &property, photos, &tenant, h.store.Path)
	if err != nil {
		log.Printf("génération PDF échouée pour le rapport %d: %v", report.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Échec de la génération du PDF"})
	}
	pdfName, err := h.store.SavePDF(report.ID, pdfBytes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Échec de l'enregistrement du PDF"})
	}
	pdfURL := h.store.URL(pdfName)

	// Garde atomique : un seul des envois concurrents gagne la transition.
	// Le perdant laisse un PDF orphelin sur disque, assumé.
	now := time.Now()
	res := h.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", report.ID, models.StatusDraft).
		Updates(map[string]interface{}{
			"status":      models.StatusSent,
			"pdf_url":     pdfURL,
			"report_sent": now,
		})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur mise à jour du rapport"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ce rapport a déjà été envoyé."})
	}

	logEntry := models.ReportLog{
		ReportID:  report.ID,
		Action:    models.ActionSentToLandlord,
		Timestamp: now,
		Details: datatypes.JSONMap{
			"sentBy": tenant.Name,
			"sentTo": property.LandlordEmail,
			"pdfUrl": pdfURL,
		},
	}
	if err := h.db.Create(&logEntry).Error; err != nil {
		log.Printf("journalisation de l'envoi échouée pour le rapport %d: %v", report.ID, err)
	}

	// L'e-mail est best-effort : le rapport reste envoyé même si le SMTP
	// échoue, l'échec est remonté en avertissement.
	warning := ""
	sendErr := h.mail.SendReport(mailer.SendParams{
		To:              property.LandlordEmail,
		LandlordName:    property.LandlordName,
		TenantName:      tenant.Name,
		PropertyAddress: property.Address,
		ViewURL:         h.cfg.BaseURL + "/view-report/" + report.AccessToken,
		PDFPath:         h.store.Path(pdfName),
	})
	if sendErr != nil {
		log.Printf("⚠️ envoi e-mail échoué pour le rapport %d: %v", report.ID, sendErr)
		warning = "Le rapport est marqué comme envoyé mais l'e-mail au propriétaire a échoué."
	}

	var updated models.Report
	if err := h.db.First(&updated, report.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}

	resp := fiber.Map{
		"message": "Rapport envoyé au propriétaire avec succès.",
		"report":  updated,
	}
	if warning != "" {
		resp["warning"] = warning
	}
	return c.JSON(resp)
}

func isImageFile(fh *multipart.FileHeader) bool {
	contentType := fh.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	return allowedImageTypes[contentType] && allowedImageExts[ext]
}

// selectIdentity limite l'utilisateur embarqué à son identité publique.
func selectIdentity(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}
