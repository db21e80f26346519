package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/lib/email"
	"github.com/hibiken/asynq"
)

const (
	TaskWelcome        = "email:welcome"
	TaskPasswordReset  = "email:password_reset"
	TaskBookingCreated = "email:booking_created"
)

type WelcomeEmailPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

type PasswordResetPayload struct {
	To         string `json:"to"`
	Name       string `json:"name"`
	Token      string `json:"token"`
	ValidHours int    `json:"valid_hours"`
}

type BookingCreatedPayload struct {
	To      string             `json:"to"`
	Booking email.BookingEmail `json:"booking"`
}

func NewWelcomeEmailTask(to, name string) (*asynq.Task, error) {
	return newTask(TaskWelcome, WelcomeEmailPayload{To: to, Name: name}, QueueDefault)
}

// NewPasswordResetTask goes to the critical queue: the token expires.
func NewPasswordResetTask(to, name, token string, validHours int) (*asynq.Task, error) {
	return newTask(TaskPasswordReset, PasswordResetPayload{
		To:         to,
		Name:       name,
		Token:      token,
		ValidHours: validHours,
	}, QueueCritical)
}

func NewBookingCreatedTask(to string, b email.BookingEmail) (*asynq.Task, error) {
	return newTask(TaskBookingCreated, BookingCreatedPayload{To: to, Booking: b}, QueueDefault)
}

func newTask(taskType string, payload any, queue string) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		taskType,
		data,
		asynq.MaxRetry(3),
		asynq.Queue(queue),
		asynq.Timeout(30*time.Second),
	), nil
}
