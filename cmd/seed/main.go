// Command seed loads a JSON fixture file into the database. By default it
// reads fixtures/demo.json relative to the working directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"partforge/internal/config"
	"partforge/internal/database"
	"partforge/internal/fixtures"
	"partforge/internal/logger"
	"partforge/internal/repository"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

func main() {
	fixturePath := flag.String("file", "fixtures/demo.json", "path to the fixture JSON file")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	defer func() {
		if err := dbService.Close(context.Background()); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	db := dbService.DB()
	if err := database.EnsureIndexes(ctx, db, log); err != nil {
		log.Fatal("Failed to ensure database indexes", zap.Error(err))
	}

	loader := fixtures.NewLoader(
		repository.NewUserRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewComponentRepository(db),
		repository.NewPartnerRepository(db),
		repository.NewPriceRepository(db),
		log,
	)

	if err := loader.LoadFile(ctx, *fixturePath); err != nil {
		log.Fatal("Failed to load fixtures", zap.Error(err), zap.String("file", *fixturePath))
	}

	log.Info("Fixtures loaded", zap.String("file", *fixturePath))
}
