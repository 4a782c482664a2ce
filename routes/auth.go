package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"deposit-guard/config"
	"deposit-guard/models"
	"deposit-guard/utils"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, cfg config.Config) {
	h := &AuthHandler{db: db, cfg: cfg}
	auth := app.Group("/api/auth")
	auth.Post("/register", h.register)
	auth.Post("/login", h.login)
}

type AuthHandler struct {
	db  *gorm.DB
	cfg config.Config
}

type registerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var body registerPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}
	if body.Name == "" || body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nom, e-mail et mot de passe sont requis"})
	}

	// vérifier si email déjà existant
	var existing models.User
	h.db.Where("email = ?", body.Email).First(&existing)
	if existing.ID != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cette adresse e-mail est déjà utilisée"})
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible de hasher le mot de passe"})
	}

	user := models.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: hash,
		Phone:    body.Phone,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur création utilisateur"})
	}

	token, err := signToken(h.cfg.JWTSecret, user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur génération du token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"accessToken": token,
	})
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var body loginPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	var user models.User
	h.db.Where("email = ?", body.Email).First(&user)
	if user.ID == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Utilisateur introuvable"})
	}
	if !utils.CheckPassword(user.Password, body.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Mot de passe invalide"})
	}

	token, err := signToken(h.cfg.JWTSecret, user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur génération du token"})
	}

	return c.JSON(fiber.Map{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"accessToken": token,
	})
}

func signToken(secret string, userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}
