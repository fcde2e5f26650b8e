package main

import (
	"log"

	"github.com/incidentalert/backend/internal/db"
	"github.com/incidentalert/backend/internal/seed"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	db.Connect()

	log.Println("Running database migrations...")
	db.AutoMigrate()

	log.Println("Seeding database with initial data...")
	if err := seed.Run(db.DB); err != nil {
		log.Fatalf("Error seeding database: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}
