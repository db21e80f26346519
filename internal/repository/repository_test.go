package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	var w where
	assert.Equal(t, "", w.String())

	w.raw("p.is_active = true")
	w.add("p.price >= ?", 100)
	w.add("(p.name ILIKE ? OR p.description ILIKE ?)", "%umrah%")

	assert.Equal(t, "WHERE p.is_active = true AND p.price >= $1 AND (p.name ILIKE $2 OR p.description ILIKE $2)", w.String())
	assert.Equal(t, "$3", w.next(10))
	assert.Equal(t, []any{100, "%umrah%", 10}, w.args)
}

func TestLikePatternEscapes(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, likePattern(" 50% off_now "))
}
