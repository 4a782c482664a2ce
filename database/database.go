package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"deposit-guard/config"
	"deposit-guard/models"
)

// Connect ouvre la connexion et migre le schéma. Le handle est retourné et
// injecté dans les handlers, jamais stocké en global (les tests substituent
// une base sqlite en mémoire).
func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	case dsn != "":
		// DSN postgres supposé même sans préfixe de schéma
		dialector = postgres.Open(dsn)
	default:
		dbPath := "deposit.db"
		dialector = sqlite.Open(dbPath)
		dsn = dbPath
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("📦 DB connectée et migrée sur", dsn)
	return db, nil
}

// Migrate applique AutoMigrate sur tous les modèles.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Report{},
		&models.Photo{},
		&models.ReportLog{},
	)
}
