// Command migrate brings an existing database up to date without starting
// the server: it migrates every table, drops the legacy unique index on usn
// alone and creates the compound (event_id, usn) index when it is missing.
// Running it twice is harmless.
package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"go.uber.org/zap"

	"github.com/campusfest/eventhub-api/cmd/app"
	"github.com/campusfest/eventhub-api/internal/config"
	"github.com/campusfest/eventhub-api/internal/logger"
	"github.com/campusfest/eventhub-api/internal/repository/dao"
)

func main() {
	conf, err := config.Load(app.ConfigPath())
	if err != nil {
		log.Fatalf("failed to initialize config -> %v", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		log.Fatalf("failed to initialize logger -> %v", err)
	}

	postgresDB, err := app.OpenDatabase(conf)
	if err != nil {
		zap.L().Fatal("failed to initialize database", zap.Error(err))
	}

	dropped, err := dao.Migrate(postgresDB)
	if err != nil {
		zap.L().Fatal("migration failed", zap.Error(err))
	}

	for _, name := range dropped {
		zap.L().Info("dropped legacy usn index", zap.String("name", name))
	}
	zap.L().Info("booking indexes up to date", zap.Int("dropped", len(dropped)))
}
