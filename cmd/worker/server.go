package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"artist-platform/internal/shared"
	"artist-platform/pkg/container"
)

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
	timeout time.Duration
}

func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	timeout := c.Config.Worker.ShutdownTimeout
	srv := asynq.NewServer(
		c.RedisOpt(),
		asynq.Config{
			Queues: map[string]int{
				shared.QueueArtist:      10,
				shared.QueueMaintenance: 2,
			},
			Concurrency:     c.Config.Worker.Concurrency,
			ShutdownTimeout: timeout,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				log.Error().
					Str("type", task.Type()).
					Int("retried", retried).
					Int("max_retry", maxRetry).
					Err(err).
					Msg("[Asynq] Task failed")
			}),
		},
	)

	go func() {
		log.Info().Int("concurrency", c.Config.Worker.Concurrency).Msg("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("[Worker] Failed")
		}
	}()

	return &asynqServer{Server: srv, timeout: timeout}
}

// Shutdown waits for in-flight tasks up to the configured timeout
func (s *asynqServer) Shutdown() {
	log.Info().Dur("timeout", s.timeout).Msg("[Worker] Shutting down...")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] Stopped")
}
