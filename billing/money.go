package billing

import "math"

// Round2 rounds x to 2 decimal places, half away from zero.
// Idempotent: Round2(Round2(x)) == Round2(x). Every monetary value in the
// system passes through here so repeated recalculation cannot drift.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
