package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finishlast/officesim/internal/game/rng"
)

func TestSeeded_SameSeedSameStream(t *testing.T) {
	a := rng.NewSeeded(42)
	b := rng.NewSeeded(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSeeded_IntnInRange(t *testing.T) {
	src := rng.NewSeeded(7)
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestSeeded_IntnPanicsOnZero(t *testing.T) {
	src := rng.NewSeeded(1)
	assert.Panics(t, func() { src.Intn(0) })
}

func TestCryptoSource_Float64InRange(t *testing.T) {
	src := rng.NewCryptoSource()
	for i := 0; i < 100; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestBetween(t *testing.T) {
	src := rng.NewSeeded(3)
	for i := 0; i < 1000; i++ {
		v := rng.Between(src, 0.85, 1.15)
		assert.GreaterOrEqual(t, v, 0.85)
		assert.Less(t, v, 1.15)
	}
}

func TestBetween_PanicsOnInvertedBounds(t *testing.T) {
	src := rng.NewSeeded(3)
	assert.Panics(t, func() { rng.Between(src, 2, 1) })
}
