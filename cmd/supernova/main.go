package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/supernova/supernova/config"
	"github.com/supernova/supernova/internal/core/object"
	"github.com/supernova/supernova/internal/core/schema"
	"github.com/supernova/supernova/internal/core/validation"
	"github.com/supernova/supernova/internal/logging"
	"github.com/supernova/supernova/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("export", "", "copy the backing database file to this path and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := sqlite.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	// Migrations run before any other access.
	if err := db.Migrate(ctx, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	if *exportPath != "" {
		if err := db.ExportTo(*exportPath); err != nil {
			logger.Fatal("export failed", zap.Error(err))
		}
		logger.Info("database exported", zap.String("path", *exportPath))
		return
	}

	tables := schema.NewTableEngine(logger)
	schemaRepo := schema.NewRepository(db, tables)
	schemaService := schema.NewService(schemaRepo, logger)

	validator := validation.NewValidator()
	objectRepo := object.NewRepository(db)
	objectService := object.NewService(objectRepo, schemaService, validator, logger)

	classes, err := schemaService.GetAllClasses(ctx)
	if err != nil {
		logger.Fatal("failed to read catalog", zap.Error(err))
	}

	logger.Info("store ready",
		zap.String("path", db.Path()),
		zap.Int("classes", len(classes)))

	for _, c := range classes {
		count, err := objectService.Count(ctx, c.ID, "")
		if err != nil {
			logger.Warn("failed to count objects", zap.String("class", c.Name), zap.Error(err))
			continue
		}
		logger.Info("class", zap.String("name", c.Name), zap.Int64("objects", count))
	}
}
