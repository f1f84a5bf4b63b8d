package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Same point.
	assert.Equal(t, 0.0, HaversineDistance(41.3851, 2.1734, 41.3851, 2.1734))

	// One degree of latitude is ~111.2 km regardless of longitude.
	d := HaversineDistance(41.0, 2.1734, 42.0, 2.1734)
	assert.InDelta(t, 111195, d, 100)

	// ~0.00045 degrees of latitude is roughly 50 m.
	d = HaversineDistance(41.38510, 2.17340, 41.38555, 2.17340)
	assert.InDelta(t, 50, d, 1)
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(41.3851, 2.1734))
	assert.True(t, ValidateCoordinates(-90, -180))
	assert.True(t, ValidateCoordinates(90, 180))
	assert.False(t, ValidateCoordinates(90.01, 0))
	assert.False(t, ValidateCoordinates(-90.01, 0))
	assert.False(t, ValidateCoordinates(0, 180.5))
	assert.False(t, ValidateCoordinates(0, -181))
}
