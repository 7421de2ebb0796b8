package service

import (
	"context"

	"artist-platform/internal/domains/artist/model"
)

// EventPublisher delivers committed domain events
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}

// TaskEnqueuer schedules background work after a commit
type TaskEnqueuer interface {
	EnqueueTipReceived(ctx context.Context, payload model.TipReceivedPayload) error
	EnqueueProfileClosed(ctx context.Context, payload model.ProfileClosedPayload) error
}

// LeaderboardScore is one artist's cumulative tips
type LeaderboardScore struct {
	Artist    model.Address
	TotalTips uint64
}

// LeaderboardStore keeps the tips ranking outside the account store
type LeaderboardStore interface {
	Record(ctx context.Context, artist model.Address, totalTips uint64) error
	Remove(ctx context.Context, artist model.Address) error
	Top(ctx context.Context, limit int) ([]LeaderboardScore, error)
	Replace(ctx context.Context, scores []LeaderboardScore) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, model.Event) error { return nil }

type noopEnqueuer struct{}

func (noopEnqueuer) EnqueueTipReceived(context.Context, model.TipReceivedPayload) error {
	return nil
}

func (noopEnqueuer) EnqueueProfileClosed(context.Context, model.ProfileClosedPayload) error {
	return nil
}
