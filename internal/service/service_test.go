package service

import (
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordUsesCost(t *testing.T) {
	hash, err := hashPassword(bcrypt.MinCost, "rahasia123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("rahasia123")))
}

func TestHashPasswordDefaultsCost(t *testing.T) {
	hash, err := hashPassword(0, "rahasia123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPasswordLongerThanBcryptLimit(t *testing.T) {
	long := strings.Repeat("a", 100)
	require.NoError(t, validation.Password(long))

	hash, err := hashPassword(bcrypt.MinCost, long)
	require.NoError(t, err)

	assert.NoError(t, checkPassword(hash, long))
	assert.NoError(t, checkPassword(hash, long[:bcryptMaxBytes]))
	assert.Error(t, checkPassword(hash, long[:bcryptMaxBytes-1]))
}

func TestActorOwns(t *testing.T) {
	user := Actor{UserID: "u-1", Role: model.RoleUser}
	admin := Actor{UserID: "a-1", Role: model.RoleAdmin}
	super := Actor{UserID: "s-1", Role: model.RoleSuperAdmin}

	assert.True(t, user.owns("u-1"))
	assert.False(t, user.owns("u-2"))
	assert.True(t, admin.owns("u-2"))
	assert.True(t, super.owns("u-2"))
}

func TestCardsBuildPreview(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	cover := "https://cdn.example.com/umrah.jpg"

	out := cards([]model.Article{{
		ID:            "a-1",
		Slug:          "tips-umrah",
		Title:         "Tips Umrah",
		Content:       "<h2>Persiapan</h2><p>Bawa <b>mukena</b> &amp; sajadah.</p>",
		CoverImageURL: &cover,
		Views:         12,
		CreatedAt:     created,
	}})

	require.Len(t, out, 1)
	assert.Equal(t, "Persiapan Bawa mukena & sajadah.", out[0].Preview)
	assert.Equal(t, created, out[0].Date)
	assert.Equal(t, &cover, out[0].ImageURL)
	assert.EqualValues(t, 12, out[0].Views)
}

func TestCardsEmpty(t *testing.T) {
	assert.Empty(t, cards(nil))
	assert.NotNil(t, cards(nil))
}

func TestLabelDurations(t *testing.T) {
	items := []model.Package{{DurationDays: 9}, {DurationDays: 1}}
	labelDurations(items)

	assert.Equal(t, "9 Days 8 Nights", items[0].Duration)
	assert.Equal(t, "1 Day 0 Nights", items[1].Duration)
}

func TestNonNilTags(t *testing.T) {
	assert.Equal(t, []string{}, nonNilTags(nil))
	assert.Equal(t, []string{"umrah"}, nonNilTags([]string{"umrah"}))
}
