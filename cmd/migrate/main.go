package main

import (
	"log"

	"resume-assistant-be/internal/config"
	"resume-assistant-be/internal/model"
	"resume-assistant-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Store.DSN == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Store.DSN, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for candidate_profiles...")
	if err := database.Migrate(db, &model.CandidateProfile{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Success: database migration completed.")
}
