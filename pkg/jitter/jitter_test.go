package jitter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := 100 * time.Millisecond

	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestDurationWithSeed_Deterministic(t *testing.T) {
	base := 100 * time.Millisecond

	first := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(42)))
	second := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(42)))

	assert.Equal(t, first, second)
}

func TestExponentialBackoff_DoublesAndCaps(t *testing.T) {
	const (
		base = time.Second
		max  = 10 * time.Second
	)

	assert.LessOrEqual(t, ExponentialBackoff(base, max, 0, 0), base)
	assert.Equal(t, 2*base, ExponentialBackoff(base, max, 1, 0))
	assert.Equal(t, 4*base, ExponentialBackoff(base, max, 2, 0))

	// Большой номер попытки упирается в потолок.
	assert.Equal(t, max, ExponentialBackoff(base, max, 20, 0))
}
