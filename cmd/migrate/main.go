package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sensusai/sensus-server/internal/core/config"
	"github.com/sensusai/sensus-server/internal/storage/db"
	"github.com/sensusai/sensus-server/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger.InitWithMode(logger.LogModePretty)
	log := logger.WithComponent("migrate")

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	dbConfig := config.DatabaseConfig{
		Username:     os.Getenv("DATABASE_USERNAME"),
		Password:     os.Getenv("DATABASE_PASSWORD"),
		Host:         os.Getenv("DATABASE_HOST"),
		Port:         os.Getenv("DATABASE_PORT"),
		DatabaseName: os.Getenv("DATABASE_DATABASE_NAME"),
		SSLMode:      os.Getenv("DATABASE_SSL_MODE"),
	}

	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.DatabaseName).
		Msg("Connecting to database")

	gormDB, err := gorm.Open(postgres.Open(dbConfig.GetConnectionURL()), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	log.Info().Msg("Starting database migrations...")
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	var tables []string
	if err := gormDB.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		log.Fatal().Err(err).Msg("Failed to list tables")
	}

	fmt.Printf("Migrated tables: %v\n", tables)
}
