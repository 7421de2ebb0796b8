package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// LeaderboardRebuilder is the slice of the artist service this job needs
type LeaderboardRebuilder interface {
	RebuildLeaderboard(ctx context.Context) (int, error)
}

type RebuildLeaderboardHandler struct {
	rebuilder LeaderboardRebuilder
}

func NewRebuildLeaderboardHandler(rebuilder LeaderboardRebuilder) *RebuildLeaderboardHandler {
	return &RebuildLeaderboardHandler{rebuilder: rebuilder}
}

func (h *RebuildLeaderboardHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	start := time.Now()
	count, err := h.rebuilder.RebuildLeaderboard(ctx)
	if err != nil {
		return err
	}

	log.Info().
		Int("artists", count).
		Dur("took", time.Since(start)).
		Msg("Leaderboard rebuilt")
	return nil
}
