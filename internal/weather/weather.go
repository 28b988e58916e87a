// Package weather derives monthly temperature and precipitation from the
// calendar and the greenhouse-gas level. Units are degrees Fahrenheit and
// inches; the conversion helpers produce metric values for reports.
package weather

import (
	"math"

	"github.com/talgya/graindeer/internal/entropy"
)

// Seasonal model constants.
const (
	AvgTemp   = 50.0 // degF
	AmpTemp   = 20.0 // degF
	RandTemp  = 10.0 // plus or minus noise, degF
	IdealTemp = 40.0 // degF

	AvgPrecip   = 6.0  // inches per month
	AmpPrecip   = 6.0  // inches per month
	RandPrecip  = 2.0  // plus or minus noise, inches
	IdealPrecip = 10.0 // inches per month
)

// Conditions is the weather for one month.
type Conditions struct {
	Temp   float64 `json:"temp"`   // degF
	Precip float64 `json:"precip"` // inches
}

// GreenhouseFactor returns the amplification applied to weather at the
// given gas level (percent over baseline).
func GreenhouseFactor(gas float64) float64 {
	return 1 + gas/100
}

// angle is the seasonal phase of month, centred mid-month.
func angle(month int) float64 {
	return (30*float64(month) + 15) * (math.Pi / 180)
}

// Baseline returns the noise-free weather for month at the given gas level.
// More gas warms the month and dries it out.
func Baseline(month int, gas float64) Conditions {
	gf := GreenhouseFactor(gas)
	ang := angle(month)
	return Conditions{
		Temp:   (AvgTemp - AmpTemp*math.Cos(ang)) * gf,
		Precip: (AvgPrecip + AmpPrecip*math.Sin(ang)) / gf,
	}
}

// Derive draws the weather for month. Noise amplitude grows with the
// greenhouse factor. Precipitation never goes negative.
func Derive(month int, gas float64, src entropy.Source) Conditions {
	gf := GreenhouseFactor(gas)
	c := Baseline(month, gas)
	c.Temp += src.Uniform(-RandTemp*gf, RandTemp*gf)
	c.Precip += src.Uniform(-RandPrecip*gf, RandPrecip*gf)
	if c.Precip < 0 {
		c.Precip = 0
	}
	return c
}

// Suitability scores how close x is to ideal on a bell curve; 1 at ideal.
func Suitability(x, ideal float64) float64 {
	d := (x - ideal) / 10
	return math.Exp(-d * d)
}

// FahrenheitToCelsius converts degF to degC.
func FahrenheitToCelsius(f float64) float64 {
	return (5.0 / 9.0) * (f - 32)
}

// InchesToCentimeters converts inches to centimeters.
func InchesToCentimeters(in float64) float64 {
	return in * 2.54
}
