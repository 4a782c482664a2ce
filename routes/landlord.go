package routes

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"deposit-guard/models"
)

// Accès propriétaire : le jeton d'accès du rapport est la seule
// autorisation, aucun compte n'est requis.
func SetupLandlordRoutes(app *fiber.App, db *gorm.DB) {
	h := &LandlordHandler{db: db}
	app.Get("/api/view-report/:token", h.view)
	app.Post("/api/viewed-report/:token", h.markViewed)
}

type LandlordHandler struct {
	db *gorm.DB
}

func (h *LandlordHandler) view(c *fiber.Ctx) error {
	var report models.Report
	err := h.db.
		Preload("Property").
		Preload("Property.User", selectIdentity).
		Where("access_token = ?", c.Params("token")).
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rapport introuvable."})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}

	var photos []models.Photo
	if err := h.db.Where("report_id = ?", report.ID).Find(&photos).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lecture des photos"})
	}

	return c.JSON(fiber.Map{
		"report": report,
		"photos": photos,
	})
}

func (h *LandlordHandler) markViewed(c *fiber.Ctx) error {
	token := c.Params("token")

	var report models.Report
	err := h.db.Where("access_token = ?", token).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rapport introuvable."})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur interne"})
	}

	// Transition sent → viewed idempotente : la mise à jour conditionnelle
	// garantit qu'une seule première visite exécute horodatage et journal,
	// même avec deux onglets ouverts en même temps.
	now := time.Now()
	res := h.db.Model(&models.Report{}).
		Where("access_token = ? AND status = ?", token, models.StatusSent).
		Updates(map[string]interface{}{
			"status":        models.StatusViewed,
			"last_viewed":   now,
			"report_viewed": now,
		})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur mise à jour du rapport"})
	}

	if res.RowsAffected == 1 {
		logEntry := models.ReportLog{
			ReportID:  report.ID,
			Action:    models.ActionViewedByLandlord,
			Timestamp: now,
			Details: datatypes.JSONMap{
				"viewedAt":     now.Format(time.RFC3339),
				"viewedFromIP": c.IP(),
			},
		}
		if err := h.db.Create(&logEntry).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur journalisation"})
		}
	}

	return c.JSON(fiber.Map{"message": "Rapport marqué comme consulté."})
}
