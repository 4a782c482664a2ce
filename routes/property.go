package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"deposit-guard/config"
	"deposit-guard/middleware"
	"deposit-guard/models"
)

func SetupPropertyRoutes(app *fiber.App, db *gorm.DB, cfg config.Config) {
	h := &PropertyHandler{db: db}
	g := app.Group("/api/properties", middleware.JWT([]byte(cfg.JWTSecret)))
	g.Post("/", h.create)
	g.Get("/", h.list)
}

type PropertyHandler struct {
	db *gorm.DB
}

type propertyPayload struct {
	Address       string   `json:"address"`
	City          string   `json:"city"`
	PostalCode    string   `json:"postalCode"`
	Type          string   `json:"type"`
	RentalPeriod  int      `json:"rentalPeriod"`
	DepositAmount float64  `json:"depositAmount"`
	RoomCount     int      `json:"roomCount"`
	BathroomCount int      `json:"bathroomCount"`
	Amenities     []string `json:"amenities"`
	LandlordName  string   `json:"landlordName"`
	LandlordEmail string   `json:"landlordEmail"`
	LandlordPhone string   `json:"landlordPhone"`
}

func (h *PropertyHandler) create(c *fiber.Ctx) error {
	var body propertyPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}
	if body.Address == "" || body.City == "" || body.Type == "" || body.LandlordName == "" || body.LandlordEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Adresse, ville, type et coordonnées du propriétaire sont requis"})
	}

	if body.RentalPeriod == 0 {
		body.RentalPeriod = 12
	}
	if body.RoomCount == 0 {
		body.RoomCount = 1
	}
	if body.BathroomCount == 0 {
		body.BathroomCount = 1
	}

	property := models.Property{
		UserID:        c.Locals("user_id").(uint),
		Address:       body.Address,
		City:          body.City,
		PostalCode:    body.PostalCode,
		Type:          body.Type,
		RentalPeriod:  body.RentalPeriod,
		DepositAmount: body.DepositAmount,
		RoomCount:     body.RoomCount,
		BathroomCount: body.BathroomCount,
		Amenities:     body.Amenities,
		LandlordName:  body.LandlordName,
		LandlordEmail: body.LandlordEmail,
		LandlordPhone: body.LandlordPhone,
	}
	if err := h.db.Create(&property).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur création du bien"})
	}

	return c.Status(fiber.StatusCreated).JSON(property)
}

func (h *PropertyHandler) list(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	var properties []models.Property
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lecture des biens"})
	}
	return c.JSON(properties)
}
