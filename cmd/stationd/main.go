package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/hydrokr/stationd/internal/app"
)

func main() {
	// Best effort: a missing .env file is the normal production case.
	_ = godotenv.Load()

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ stationd failed to start: %v", err)
	}
}
