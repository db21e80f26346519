package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	MaxEmailLength    = 255
	MinPasswordLength = 6
	MaxPasswordLength = 128
	DateLayout        = "2006-01-02"
)

var (
	phoneRegex   = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{7,11}$`)
	phoneCleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

	maxPrice = decimal.RequireFromString("999999999.99")

	// now is swapped in tests.
	now = time.Now
)

var (
	errRequired = errors.New("is required")
)

// Email trims and lower-cases v and checks it with the validator's email rule.
func Email(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "":
		return "", errRequired
	case len(v) > MaxEmailLength:
		return "", fmt.Errorf("must not exceed %d characters", MaxEmailLength)
	case Validator().Var(v, "email") != nil:
		return "", errors.New("must be a valid email address")
	}
	return v, nil
}

// PhoneNumber strips separators from an Indonesian mobile number and
// normalises +62 and 62 prefixes to a leading 0. An empty value is
// accepted unless required.
func PhoneNumber(v string, required bool) (string, error) {
	v = phoneCleaner.Replace(strings.TrimSpace(v))
	if v == "" {
		if required {
			return "", errRequired
		}
		return "", nil
	}
	if !phoneRegex.MatchString(v) {
		return "", errors.New("must be a valid Indonesian phone number")
	}

	switch {
	case strings.HasPrefix(v, "+62"):
		v = "0" + v[3:]
	case strings.HasPrefix(v, "62"):
		v = "0" + v[2:]
	}
	return v, nil
}

// Price accepts 0 through 999999999.99 with at most two decimals.
func Price(v decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case v.IsNegative():
		return v, errors.New("must not be negative")
	case v.GreaterThan(maxPrice):
		return v, errors.New("must not exceed 999999999.99")
	case !v.Round(2).Equal(v):
		return v, errors.New("must have at most 2 decimal places")
	}
	return v, nil
}

// Date parses a YYYY-MM-DD value between the years 1900 and 2100. With
// allowPast false, dates before today are rejected.
func Date(v string, allowPast bool) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errRequired
	}

	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, errors.New("must be a date in YYYY-MM-DD format")
	}
	if t.Year() < 1900 || t.Year() > 2100 {
		return time.Time{}, errors.New("year must be between 1900 and 2100")
	}

	if !allowPast {
		y, m, d := now().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if t.Before(today) {
			return time.Time{}, errors.New("cannot be in the past")
		}
	}
	return t, nil
}

// PositiveInt checks min <= v <= max.
func PositiveInt(v, min, max int) (int, error) {
	if v < min {
		return v, fmt.Errorf("must be at least %d", min)
	}
	if v > max {
		return v, fmt.Errorf("must not exceed %d", max)
	}
	return v, nil
}

// String trims v and bounds its length in characters. An empty value is
// accepted unless required.
func String(v string, min, max int, required bool) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		if required {
			return "", errRequired
		}
		return "", nil
	}

	n := utf8.RuneCountInString(v)
	if n < min {
		return "", fmt.Errorf("must be at least %d characters", min)
	}
	if n > max {
		return "", fmt.Errorf("must not exceed %d characters", max)
	}
	return v, nil
}

// UUID accepts version 4 UUIDs only.
func UUID(v string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(v))
	if err != nil || id.Version() != 4 || id.Variant() != uuid.RFC4122 {
		return "", errors.New("must be a valid UUID")
	}
	return id.String(), nil
}

// Enum matches v against allowed case-insensitively and returns the
// lower-cased value.
func Enum(v string, allowed ...string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == strings.ToLower(a) {
			return v, nil
		}
	}
	return "", fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
}

// Itinerary decodes a JSON array of days and returns it sorted by day.
// The array may also arrive JSON-encoded inside a string, as multipart
// clients send it.
func Itinerary(raw json.RawMessage) ([]model.ItineraryDay, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, errors.New("must be a JSON array of days")
		}
		raw = json.RawMessage(strings.TrimSpace(encoded))
	}
	if len(raw) == 0 || string(raw) == "null" {
		return []model.ItineraryDay{}, nil
	}

	var days []model.ItineraryDay
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, errors.New("must be a JSON array of days")
	}

	for i, d := range days {
		if d.Day < 1 {
			return nil, fmt.Errorf("item %d: day must be at least 1", i)
		}
		if strings.TrimSpace(d.Title) == "" {
			return nil, fmt.Errorf("item %d: title is required", i)
		}
		if d.Activities == nil {
			days[i].Activities = []string{}
		}
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days, nil
}

// Password checks the length bounds of a new password.
func Password(v string) error {
	if v == "" {
		return errRequired
	}
	n := utf8.RuneCountInString(v)
	if n < MinPasswordLength {
		return fmt.Errorf("must be at least %d characters", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("must not exceed %d characters", MaxPasswordLength)
	}
	return nil
}

// Fields collects field helper failures under their field names.
//
//	var f validation.Fields
//	r.Email = f.Email("email", r.Email)
//	return f.Err()
type Fields struct {
	errs CustomValidationErrors
}

func (f *Fields) Add(field string, err error) {
	if err != nil {
		f.errs = append(f.errs, CustomValidationError{Field: field, Message: err.Error()})
	}
}

// Err returns nil or the collected CustomValidationErrors.
func (f *Fields) Err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return f.errs
}

func (f *Fields) Email(field, v string) string {
	out, err := Email(v)
	f.Add(field, err)
	return out
}

func (f *Fields) Phone(field, v string, required bool) string {
	out, err := PhoneNumber(v, required)
	f.Add(field, err)
	return out
}

func (f *Fields) Date(field, v string, allowPast bool) time.Time {
	out, err := Date(v, allowPast)
	f.Add(field, err)
	return out
}

func (f *Fields) UUID(field, v string) string {
	out, err := UUID(v)
	f.Add(field, err)
	return out
}

func (f *Fields) Password(field, v string) {
	f.Add(field, Password(v))
}
