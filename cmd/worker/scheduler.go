package main

import (
	"github.com/rs/zerolog/log"

	"artist-platform/internal/infrastructure/queue"
	"artist-platform/pkg/container"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(c.RedisOpt())

	if err := scheduler.RegisterRebuildLeaderboard(c.Config.Worker.RebuildCron); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to start")
	}

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
}
