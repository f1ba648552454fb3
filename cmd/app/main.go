package main

import (
	"log"

	"freeland/internal/app"
	"freeland/pkg/config"
)

// @title FreeLand API
// @version 1.0
// @description Realtime social feed with a coin micro-economy: posts, likes,
// @description reshares, post ownership trading, direct messages and transfers.

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.Run(cfg); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
