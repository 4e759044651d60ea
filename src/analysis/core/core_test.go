package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMean(t *testing.T) {
	assert.Equal(t, 2.0, CalculateMean([]float64{1, 2, 3}))
	assert.True(t, math.IsNaN(CalculateMean(nil)))
	assert.True(t, math.IsNaN(CalculateMean([]float64{1, math.NaN()})))
}

func TestCalculateRollingMean(t *testing.T) {
	means, ok := CalculateRollingMean([]float64{1, 2, 3, math.NaN(), 5, 6}, 2)

	assert.Equal(t, []bool{false, true, true, false, false, true}, ok)
	assert.Equal(t, 1.5, means[1])
	assert.Equal(t, 2.5, means[2])
	assert.Equal(t, 5.5, means[5])
}

func TestCalculateRollingMeanShortInput(t *testing.T) {
	_, ok := CalculateRollingMean([]float64{1, 2, 3}, 50)
	assert.Equal(t, []bool{false, false, false}, ok)
}

func TestCalculateChangePercent(t *testing.T) {
	assert.InDelta(t, 0.1, CalculateChangePercent(110, 100), 1e-12)
	assert.Equal(t, 0.0, CalculateChangePercent(110, 0))
}

func TestSign(t *testing.T) {
	assert.Equal(t, 1, Sign(0.5))
	assert.Equal(t, -1, Sign(-2))
	assert.Equal(t, 0, Sign(0))
}
