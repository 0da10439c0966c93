package policy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideBoundaryIsOff(t *testing.T) {
	assert.False(t, Decide(25.0, 25.0))
	assert.False(t, NewThreshold(DefaultThresholdC).Decide(DefaultThresholdC))
}

func TestDecideBelowAndAboveThreshold(t *testing.T) {
	threshold := NewThreshold(DefaultThresholdC)
	for _, temperature := range []float64{-40, 0, 20, 24.99, 25} {
		assert.False(t, threshold.Decide(temperature), temperature)
	}
	for _, temperature := range []float64{25.01, 30, 85, math.Nextafter(25, 26)} {
		assert.True(t, threshold.Decide(temperature), temperature)
	}
}

func TestDecideWithCustomThreshold(t *testing.T) {
	assert.True(t, Decide(19, 18.5))
	assert.False(t, Decide(18.5, 18.5))
}
