package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"artist-platform/internal/config"
	"artist-platform/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init(cfg.App.Environment)
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	Serve(cfg)
}
