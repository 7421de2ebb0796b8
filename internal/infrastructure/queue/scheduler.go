package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"artist-platform/internal/shared"
	"artist-platform/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisOpt asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)
	return &Scheduler{scheduler: scheduler}
}

// RegisterRebuildLeaderboard reconciles the ranking with stored profiles on a cron spec
func (s *Scheduler) RegisterRebuildLeaderboard(cronspec string) error {
	task := asynq.NewTask(shared.TypeRebuildLeaderboard, nil)

	_, err := s.scheduler.Register(
		cronspec,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register RebuildLeaderboard job", err)
		return err
	}

	logger.Info("Registered RebuildLeaderboard", map[string]interface{}{"cron": cronspec})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
