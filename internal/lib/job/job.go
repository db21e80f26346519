// Package job runs background work on Asynq.
//
// The API enqueues tasks through JobService.Client; `travel serve` and
// `travel worker` start the asynq.Server that consumes them.
package job

import (
	"context"

	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/deppfellow/muslimah-travel/internal/lib/email"
	"github.com/deppfellow/muslimah-travel/internal/lib/metrics"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Queue names and their worker weights.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

type JobService struct {
	Client *asynq.Client

	server  *asynq.Server
	mailer  email.Sender
	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config, mailer email.Sender, m *metrics.Metrics) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Error().
				Err(err).
				Str("type", task.Type()).
				Int("retry", retried).
				Int("max_retry", maxRetry).
				Msg("background task failed")
		}),
	})

	return &JobService{
		Client:  asynq.NewClient(redisOpt),
		server:  server,
		mailer:  mailer,
		metrics: m,
		logger:  logger,
	}
}

// Mux routes task types to their handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	mux.HandleFunc(TaskPasswordReset, j.handlePasswordResetTask)
	mux.HandleFunc(TaskBookingCreated, j.handleBookingCreatedTask)
	return mux
}

// Start launches the workers in the background and returns.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(j.Mux()); err != nil {
		return errors.Wrap(err, "start background job server")
	}
	return nil
}

// Stop waits for running tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}

// Enqueue pushes task and records the outcome. Delivery is best effort:
// a failed enqueue is logged and counted, never returned to the caller.
// A nil JobService drops the task.
func (j *JobService) Enqueue(ctx context.Context, task *asynq.Task, err error) {
	if j == nil {
		return
	}
	if err == nil {
		_, err = j.Client.EnqueueContext(ctx, task)
	}

	result := "ok"
	taskType := "unknown"
	if task != nil {
		taskType = task.Type()
	}
	if err != nil {
		result = "error"
		j.logger.Error().Err(err).Str("type", taskType).Msg("failed to enqueue background task")
	}
	if j.metrics != nil {
		j.metrics.JobsEnqueued.WithLabelValues(taskType, result).Inc()
	}
}
