package config

import (
	"log"
	"os"
	"strconv"
)

// Config contient la configuration principale du serveur.
type Config struct {
	Env         string
	Port        string
	JWTSecret   string
	DatabaseURL string
	UploadDir   string
	BaseURL     string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	EmailFrom   string
}

// Load charge la configuration à partir des variables d'environnement.
func Load() Config {
	cfg := Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "changeme-super-secret"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		SMTPHost:    getEnv("SMTP_HOST", "localhost"),
		SMTPPort:    getEnvInt("SMTP_PORT", 587),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
		EmailFrom:   getEnv("EMAIL_FROM", "no-reply@deposit-guard.local"),
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == "changeme-super-secret" {
		log.Println("[AVERTISSEMENT] JWT_SECRET n'est pas configuré ou utilise la valeur par défaut. Ne pas utiliser en production.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[AVERTISSEMENT] %s invalide (%q), valeur par défaut %d utilisée", key, v, fallback)
		return fallback
	}
	return n
}
