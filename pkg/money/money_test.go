package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinor(t *testing.T) {
	assert.Equal(t, int64(10000), ToMinor(100))
	assert.Equal(t, int64(4550), ToMinor(45.50))
	// Округление round-half-up
	assert.Equal(t, int64(2000), ToMinor(19.995))
	assert.Equal(t, int64(0), ToMinor(0))
}

func TestFromMinor(t *testing.T) {
	assert.Equal(t, 100.0, FromMinor(10000))
	assert.Equal(t, 45.5, FromMinor(4550))
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, int64(2000), PercentOf(10000, 20))
	assert.Equal(t, int64(10000), PercentOf(10000, 100))
	assert.Equal(t, int64(0), PercentOf(10000, 0))
	// Половина минорной единицы округляется вверх: 25% от 50 = 12.5 -> 13
	assert.Equal(t, int64(13), PercentOf(50, 25))
}
