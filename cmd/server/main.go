package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/vkuzn/sessiond/internal/app"
	"github.com/vkuzn/sessiond/internal/config"
)

func main() {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
