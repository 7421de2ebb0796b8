package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/domains/artist/service"
	"artist-platform/pkg/cache"
)

// ContentRemover deletes uploaded work content
type ContentRemover interface {
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

// ContentPrefix is the object key prefix for everything an owner uploaded
func ContentPrefix(owner model.Key) string {
	return "works/" + owner.String() + "/"
}

// ProfileClosedHandler removes what a closed profile leaves outside the ledger
type ProfileClosedHandler struct {
	leaderboard service.LeaderboardStore
	cache       cache.Cache
	content     ContentRemover
}

// NewProfileClosedHandler - cache and content may be nil
func NewProfileClosedHandler(leaderboard service.LeaderboardStore, c cache.Cache, content ContentRemover) *ProfileClosedHandler {
	return &ProfileClosedHandler{leaderboard: leaderboard, cache: c, content: content}
}

func (h *ProfileClosedHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.ProfileClosedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal profile closed payload: %w: %w", err, asynq.SkipRetry)
	}

	// Step 1: Ranking
	if err := h.leaderboard.Remove(ctx, payload.Artist); err != nil {
		return fmt.Errorf("remove from leaderboard: %w", err)
	}

	// Step 2: Cached reads
	if h.cache != nil {
		if err := h.cache.Delete(ctx, service.ProfileCacheKey(payload.Artist)); err != nil {
			return fmt.Errorf("drop cached profile: %w", err)
		}
	}

	// Step 3: Uploaded content
	removed := 0
	if h.content != nil {
		n, err := h.content.DeleteByPrefix(ctx, ContentPrefix(payload.Owner))
		if err != nil {
			return fmt.Errorf("delete content: %w", err)
		}
		removed = n
	}

	log.Info().
		Str("artist", payload.Artist.String()).
		Str("owner", payload.Owner.String()).
		Int("objects_removed", removed).
		Msg("Closed profile cleaned up")
	return nil
}
