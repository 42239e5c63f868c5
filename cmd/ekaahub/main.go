// Command ekaahub serves the EKAA registration and back-office API.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/ekaahub/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
	"github.com/joho/godotenv"
)

func main() {
	// A local .env is optional; WAFFLE reads the environment afterwards.
	_ = godotenv.Load()

	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
