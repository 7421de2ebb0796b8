package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"artist-platform/internal/config"
	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/domains/artist/service"
	"artist-platform/internal/shared"
	"artist-platform/pkg/logger"
)

// Enqueuer pushes post-commit artist tasks to asynq
type Enqueuer struct {
	client *asynq.Client
}

var _ service.TaskEnqueuer = (*Enqueuer)(nil)

func NewEnqueuer(redisOpt asynq.RedisClientOpt) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(redisOpt)}
}

func (e *Enqueuer) EnqueueTipReceived(ctx context.Context, payload model.TipReceivedPayload) error {
	task, err := marshalTask(shared.TypeTipReceived, payload)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueArtist),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeTipReceived, err)
	}
	logger.Debug("enqueued " + info.Type + " " + info.ID)
	return nil
}

func (e *Enqueuer) EnqueueProfileClosed(ctx context.Context, payload model.ProfileClosedPayload) error {
	task, err := marshalTask(shared.TypeProfileClosed, payload)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueArtist),
		asynq.MaxRetry(10),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeProfileClosed, err)
	}
	return nil
}

// EnqueueRebuildLeaderboard runs a rebuild now instead of waiting for the schedule
func (e *Enqueuer) EnqueueRebuildLeaderboard(ctx context.Context) error {
	task := asynq.NewTask(shared.TypeRebuildLeaderboard, nil)
	_, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeRebuildLeaderboard, err)
	}
	return nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}

func marshalTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}

// RedisOpt maps the Redis settings to an asynq connection
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
