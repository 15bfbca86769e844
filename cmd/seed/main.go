// Command main runs the development database seeder.
package main

import (
	"log"

	"vayam/config"
	"vayam/database"
	"vayam/seed"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
