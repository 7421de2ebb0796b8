package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"artist-platform/internal/domains/artist/model"
)

// LeaderboardSyncer is the slice of the artist service this job needs
type LeaderboardSyncer interface {
	SyncLeaderboardEntry(ctx context.Context, artist model.Address) (uint64, bool, error)
}

// TipReceivedHandler moves the artist's leaderboard score to the stored total
type TipReceivedHandler struct {
	syncer LeaderboardSyncer
}

func NewTipReceivedHandler(syncer LeaderboardSyncer) *TipReceivedHandler {
	return &TipReceivedHandler{syncer: syncer}
}

func (h *TipReceivedHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.TipReceivedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal tip payload: %w: %w", err, asynq.SkipRetry)
	}

	total, open, err := h.syncer.SyncLeaderboardEntry(ctx, payload.Artist)
	if err != nil {
		return err
	}
	if !open {
		log.Info().
			Str("artist", payload.Artist.String()).
			Msg("Tip for a closed profile, leaderboard entry dropped")
		return nil
	}

	log.Info().
		Str("artist", payload.Artist.String()).
		Str("tipper", payload.Tipper.String()).
		Uint64("amount", payload.Amount).
		Uint64("total_tips", total).
		Msg("Leaderboard updated")
	return nil
}
