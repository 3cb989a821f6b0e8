package utils

import "math"

// RoundDecimal rounds half away from zero to the given number of decimal places,
// e.g. RoundDecimal(-3.14159, 2) is -3.14. NaN and infinities are returned as is.
func RoundDecimal(value float64, decimals int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	pow := math.Pow10(decimals)
	return math.Round(value*pow) / pow
}
