package db

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-newscrew/internal/config"
	"go-newscrew/internal/history"
)

var DB *gorm.DB

// Init opens the history database named by cfg.Database and migrates it.
// An empty DSN leaves DB nil, which disables history.
func Init(cfg *config.Config, log zerolog.Logger) error {
	if cfg.Database.DSN == "" {
		log.Info().Msg("no database configured, history disabled")
		return nil
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	case "postgres", "":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&history.Record{}); err != nil {
		return err
	}

	DB = db
	log.Info().Str("driver", cfg.Database.Driver).Msg("Database connected and migrated")
	return nil
}
