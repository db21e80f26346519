package job

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/muslimah-travel/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	welcome []string
	resets  []PasswordResetPayload
	booking []email.BookingEmail
	err     error
}

func (f *fakeSender) SendWelcomeEmail(to, name string) error {
	f.welcome = append(f.welcome, to+"|"+name)
	return f.err
}

func (f *fakeSender) SendPasswordResetEmail(to, name, token string, validHours int) error {
	f.resets = append(f.resets, PasswordResetPayload{To: to, Name: name, Token: token, ValidHours: validHours})
	return f.err
}

func (f *fakeSender) SendBookingCreatedEmail(to string, b email.BookingEmail) error {
	f.booking = append(f.booking, b)
	return f.err
}

func testService(sender email.Sender) *JobService {
	logger := zerolog.Nop()
	return &JobService{mailer: sender, logger: &logger}
}

func TestWelcomeTaskRoundTrip(t *testing.T) {
	sender := &fakeSender{}
	task, err := NewWelcomeEmailTask("aisyah@example.com", "Aisyah")
	require.NoError(t, err)

	require.NoError(t, testService(sender).Mux().ProcessTask(context.Background(), task))
	assert.Equal(t, []string{"aisyah@example.com|Aisyah"}, sender.welcome)
}

func TestPasswordResetTask(t *testing.T) {
	sender := &fakeSender{}
	task, err := NewPasswordResetTask("aisyah@example.com", "Aisyah", "tok", 6)
	require.NoError(t, err)

	require.NoError(t, testService(sender).Mux().ProcessTask(context.Background(), task))
	require.Len(t, sender.resets, 1)
	assert.Equal(t, 6, sender.resets[0].ValidHours)
}

func TestBookingCreatedTaskPropagatesSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("provider down")}
	task, err := NewBookingCreatedTask("aisyah@example.com", email.BookingEmail{BookingCode: "MT-20250310-ABC123"})
	require.NoError(t, err)

	err = testService(sender).Mux().ProcessTask(context.Background(), task)
	assert.EqualError(t, err, "provider down")
	assert.Equal(t, "MT-20250310-ABC123", sender.booking[0].BookingCode)
}

func TestMalformedPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(TaskWelcome, []byte("{"))

	err := testService(&fakeSender{}).Mux().ProcessTask(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestEnqueueOnNilServiceIsNoop(t *testing.T) {
	var jobs *JobService
	task, err := NewWelcomeEmailTask("aisyah@example.com", "Aisyah")
	require.NoError(t, err)

	assert.NotPanics(t, func() { jobs.Enqueue(context.Background(), task, nil) })
}
