package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}

	return j.send(t, p.To, func() error {
		return j.mailer.SendWelcomeEmail(p.To, p.Name)
	})
}

func (j *JobService) handlePasswordResetTask(ctx context.Context, t *asynq.Task) error {
	var p PasswordResetPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal password reset payload: %w: %w", err, asynq.SkipRetry)
	}

	return j.send(t, p.To, func() error {
		return j.mailer.SendPasswordResetEmail(p.To, p.Name, p.Token, p.ValidHours)
	})
}

func (j *JobService) handleBookingCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p BookingCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal booking created payload: %w: %w", err, asynq.SkipRetry)
	}

	return j.send(t, p.To, func() error {
		return j.mailer.SendBookingCreatedEmail(p.To, p.Booking)
	})
}

// send logs around one delivery. A returned error makes asynq retry.
func (j *JobService) send(t *asynq.Task, to string, deliver func() error) error {
	logger := j.logger.With().Str("type", t.Type()).Str("to", to).Logger()

	logger.Info().Msg("processing email task")

	if err := deliver(); err != nil {
		logger.Error().Err(err).Msg("failed to send email")
		return err
	}

	logger.Info().Msg("email sent")
	return nil
}
