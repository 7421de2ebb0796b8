package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"artist-platform/pkg/container"
)

const healthAddr = ":9999"

// startServices checks the dependencies the worker needs and starts the health endpoint
func startServices(c *container.Container) error {
	if c.Redis == nil {
		return errors.New("redis is required by the worker")
	}

	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"Redis Connection", c.Cache.Ping},
		{"Account Store", c.Store.Ping},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("[Startup] OK")
	}

	go startHealthCheckServer(c)
	return nil
}

func startHealthCheckServer(c *container.Container) {
	router := gin.New()
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "artist-worker"})
	})
	router.GET("/ready", func(ctx *gin.Context) {
		status := c.HealthCheck(ctx.Request.Context())
		code := http.StatusOK
		for _, s := range status {
			if s != "ok" {
				code = http.StatusServiceUnavailable
			}
		}
		ctx.JSON(code, gin.H{"status": status})
	})

	log.Info().Str("addr", healthAddr).Msg("[Health] Starting health check server")
	if err := router.Run(healthAddr); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
