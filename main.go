package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"deposit-guard/config"
	"deposit-guard/database"
	"deposit-guard/mailer"
	"deposit-guard/routes"
	"deposit-guard/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("pas de .env trouvé")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Erreur connexion DB:", err)
	}

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatal("Erreur création du dossier uploads:", err)
	}

	mail := mailer.NewSMTP(cfg)

	// 10 photos de 5 Mo max par envoi
	app := fiber.New(fiber.Config{BodyLimit: 64 * 1024 * 1024})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-access-token",
	}))

	// Photos et PDF servis en statique
	app.Static("/uploads", store.Dir())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "L'API de protection de dépôt de garantie fonctionne."})
	})

	// Routes API
	routes.SetupAuthRoutes(app, db, cfg)
	routes.SetupPropertyRoutes(app, db, cfg)
	routes.SetupReportRoutes(app, db, cfg, store, mail)
	routes.SetupLandlordRoutes(app, db)

	log.Println("🚀 Serveur sur http://localhost:" + cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
