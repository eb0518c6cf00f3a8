package main

import (
	"context"

	"github.com/aarjjun/EventSync/internal/pkg/logger"
	"github.com/aarjjun/EventSync/internal/server"
)

// @title EventSync API
// @version 1.0
// @description Event submission, review and reporting for campus communities

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	ctx := context.Background()

	srv, err := server.NewServer(ctx)
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Fatal().Err(err).Msg("Failed to initialize server")
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server execution failed or shutdown encountered errors")
	}

	logger.Info().Msg("Application finished gracefully.")
}
