package validation

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	v, err := Email("  Siti.Aisyah@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "siti.aisyah@example.com", v)

	_, err = Email("")
	assert.EqualError(t, err, "is required")

	for _, bad := range []string{"not-an-email", "a@b..c", "a@.b.c", "a@b.c.", "a,b@c.d", "a@b_c.d"} {
		_, err = Email(bad)
		assert.Error(t, err, bad)
	}

	_, err = Email(strings.Repeat("a", MaxEmailLength) + "@example.com")
	assert.Error(t, err)
}

func TestPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+62 812-3456-7890", "081234567890"},
		{"6281234567890", "081234567890"},
		{"(0812) 3456 789", "08123456789"},
	}
	for _, tt := range tests {
		got, err := PhoneNumber(tt.in, true)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	got, err := PhoneNumber("", false)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = PhoneNumber("", true)
	assert.Error(t, err)

	_, err = PhoneNumber("0212345678", false)
	assert.Error(t, err, "landline numbers are rejected")
}

func TestPrice(t *testing.T) {
	_, err := Price(decimal.RequireFromString("35000000.50"))
	assert.NoError(t, err)

	_, err = Price(decimal.RequireFromString("-1"))
	assert.Error(t, err)

	_, err = Price(decimal.RequireFromString("1000000000"))
	assert.Error(t, err)

	_, err = Price(decimal.RequireFromString("10.123"))
	assert.EqualError(t, err, "must have at most 2 decimal places")
}

func TestDate(t *testing.T) {
	now = func() time.Time { return time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	d, err := Date("2025-03-10", false)
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())

	_, err = Date("2025-03-09", false)
	assert.EqualError(t, err, "cannot be in the past")

	_, err = Date("2025-03-09", true)
	assert.NoError(t, err)

	_, err = Date("1899-12-31", true)
	assert.Error(t, err)

	_, err = Date("10/03/2025", true)
	assert.Error(t, err)
}

func TestPositiveIntAndString(t *testing.T) {
	_, err := PositiveInt(0, 1, 10)
	assert.EqualError(t, err, "must be at least 1")
	_, err = PositiveInt(11, 1, 10)
	assert.EqualError(t, err, "must not exceed 10")

	s, err := String("  Umrah  ", 3, 10, true)
	require.NoError(t, err)
	assert.Equal(t, "Umrah", s)

	_, err = String("ab", 3, 10, true)
	assert.Error(t, err)

	s, err = String("   ", 3, 10, false)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestUUID(t *testing.T) {
	_, err := UUID("3f1c2a9e-7b4d-4c1a-9e2f-8a6b5c4d3e2f")
	assert.NoError(t, err)

	_, err = UUID("3f1c2a9e-7b4d-1c1a-9e2f-8a6b5c4d3e2f")
	assert.Error(t, err, "version 1 is rejected")

	_, err = UUID("123")
	assert.Error(t, err)
}

func TestEnum(t *testing.T) {
	v, err := Enum("Confirmed", "pending", "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", v)

	_, err = Enum("shipped", "pending", "confirmed")
	assert.EqualError(t, err, "must be one of: pending, confirmed")
}

func TestItinerary(t *testing.T) {
	days, err := Itinerary(json.RawMessage(`[
		{"day": 2, "title": "Madinah", "activities": ["Ziarah"]},
		{"day": 1, "title": "Makkah"}
	]`))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Day)
	assert.Equal(t, []string{}, days[0].Activities)

	_, err = Itinerary(json.RawMessage(`[{"day": 0, "title": "x"}]`))
	assert.Error(t, err)

	_, err = Itinerary(json.RawMessage(`[{"day": 1, "title": " "}]`))
	assert.Error(t, err)

	_, err = Itinerary(json.RawMessage(`{"day": 1}`))
	assert.Error(t, err)
}

func TestItineraryEncodedAsString(t *testing.T) {
	days, err := Itinerary(json.RawMessage(`"[{\"day\": 3, \"title\": \"Istanbul\"}, {\"day\": 1, \"title\": \"Makkah\"}]"`))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Day)
	assert.Equal(t, "Istanbul", days[1].Title)

	days, err = Itinerary(json.RawMessage(`""`))
	require.NoError(t, err)
	assert.Empty(t, days)

	_, err = Itinerary(json.RawMessage(`"not json"`))
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	assert.Error(t, Password("12345"))
	assert.NoError(t, Password("123456"))
}

func TestFieldsCollects(t *testing.T) {
	var f Fields
	f.Email("email", "bad")
	f.Phone("phone_number", "0812", false)
	f.Password("password", "secret123")

	err := f.Err()
	require.Error(t, err)

	msg, fieldErrors := extractValidationError(err)
	assert.Equal(t, "Validation failed", msg)
	require.Len(t, fieldErrors, 2)
	assert.Equal(t, "email", fieldErrors[0].Field)
	assert.Equal(t, "phone_number", fieldErrors[1].Field)
}
