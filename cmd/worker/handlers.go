package main

import (
	"github.com/hibiken/asynq"

	"artist-platform/internal/domains/artist/job"
	"artist-platform/internal/shared"
	"artist-platform/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	tipReceived        *job.TipReceivedHandler
	profileClosed      *job.ProfileClosedHandler
	rebuildLeaderboard *job.RebuildLeaderboardHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	var content job.ContentRemover
	if c.Storage != nil {
		content = c.Storage
	}

	return &HandlerRegistry{
		tipReceived:        job.NewTipReceivedHandler(c.ArtistService),
		profileClosed:      job.NewProfileClosedHandler(c.Leaderboard, c.Cache, content),
		rebuildLeaderboard: job.NewRebuildLeaderboardHandler(c.ArtistService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeTipReceived, h.tipReceived.ProcessTask)
	mux.HandleFunc(shared.TypeProfileClosed, h.profileClosed.ProcessTask)
	mux.HandleFunc(shared.TypeRebuildLeaderboard, h.rebuildLeaderboard.ProcessTask)
}
