package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundDecimal(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		want     float64
	}{
		{3.14159, 2, 3.14},
		{-3.14159, 2, -3.14},
		{2.5, 0, 3},
		{0.0005, 3, 0.001},
		{12.3456, 1, 12.3},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, RoundDecimal(tt.value, tt.decimals), 1e-12, "%v/%d", tt.value, tt.decimals)
	}
	assert.True(t, math.IsNaN(RoundDecimal(math.NaN(), 2)))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,", ","))
	assert.Nil(t, SplitList("", ","))
	assert.Nil(t, SplitList(" , ", ","))
}
