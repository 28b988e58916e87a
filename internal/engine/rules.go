package engine

import "github.com/talgya/graindeer/internal/weather"

// Growth and grazing constants, inches per month.
const (
	GrainGrowsPerMonth   = 8.0
	OneDeerEatsPerMonth  = 0.5
	GrainAbsorptionRatio = 2.5 // inches of grain that absorb one point of gas
)

// NextDeer moves the herd one animal toward the grain height.
func NextDeer(deer int, height float64) int {
	switch {
	case float64(deer) < height:
		return deer + 1
	case float64(deer) > height:
		return deer - 1
	default:
		return deer
	}
}

// NextHeight grows the grain for one month under the given weather and
// subtracts what the herd eats. The result is never negative.
func NextHeight(height float64, w weather.Conditions, deer int) float64 {
	tempFactor := weather.Suitability(w.Temp, weather.IdealTemp)
	precipFactor := weather.Suitability(w.Precip, weather.IdealPrecip)

	next := height + tempFactor*precipFactor*GrainGrowsPerMonth
	next -= float64(deer) * OneDeerEatsPerMonth
	if next < 0 {
		next = 0
	}
	return next
}

// GasDelta is this month's change in greenhouse gas: deer emit, grain absorbs.
func GasDelta(deer int, height float64) float64 {
	return float64(deer) - height/GrainAbsorptionRatio
}

// ApplyGas adds delta to gas, saturating at GasFloor.
func ApplyGas(gas, delta float64) float64 {
	gas += delta
	if gas < GasFloor {
		gas = GasFloor
	}
	return gas
}
