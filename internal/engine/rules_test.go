package engine

import (
	"math"
	"testing"

	"github.com/talgya/graindeer/internal/weather"
)

func TestNextDeer(t *testing.T) {
	tests := []struct {
		name   string
		deer   int
		height float64
		want   int
	}{
		{name: "grows toward taller grain", deer: 2, height: 5.5, want: 3},
		{name: "shrinks toward shorter grain", deer: 7, height: 1.2, want: 6},
		{name: "holds when equal", deer: 4, height: 4, want: 4},
		{name: "shrinks to zero", deer: 1, height: 0, want: 0},
		{name: "steps by one only", deer: 0, height: 100, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDeer(tt.deer, tt.height); got != tt.want {
				t.Fatalf("NextDeer(%d, %v) = %d, want %d", tt.deer, tt.height, got, tt.want)
			}
		})
	}
}

func TestNextHeight_IdealWeather(t *testing.T) {
	ideal := weather.Conditions{Temp: weather.IdealTemp, Precip: weather.IdealPrecip}
	got := NextHeight(2, ideal, 4)
	if want := 2 + GrainGrowsPerMonth - 4*OneDeerEatsPerMonth; math.Abs(got-want) > 1e-12 {
		t.Fatalf("NextHeight = %v, want %v", got, want)
	}
}

func TestNextHeight_NeverNegative(t *testing.T) {
	harsh := weather.Conditions{Temp: -40, Precip: 0}
	if got := NextHeight(0.5, harsh, 30); got != 0 {
		t.Fatalf("NextHeight = %v, want 0", got)
	}
}

func TestGasDelta(t *testing.T) {
	if got := GasDelta(3, 5); math.Abs(got-1) > 1e-12 {
		t.Fatalf("GasDelta(3, 5) = %v, want 1", got)
	}
}

func TestApplyGas_Floor(t *testing.T) {
	if got := ApplyGas(-98, -1.5); got != GasFloor {
		t.Fatalf("ApplyGas = %v, want %v", got, GasFloor)
	}
	if got := ApplyGas(-98, -0.5); got != -98.5 {
		t.Fatalf("ApplyGas = %v, want -98.5", got)
	}
}

func TestStateAdvance(t *testing.T) {
	tests := []struct {
		month, year         int
		wantMonth, wantYear int
	}{
		{month: 11, year: 2017, wantMonth: 0, wantYear: 2018},
		{month: 0, year: 2017, wantMonth: 1, wantYear: 2017},
		{month: 5, year: 2020, wantMonth: 6, wantYear: 2020},
	}
	for _, tt := range tests {
		s := State{Month: tt.month, Year: tt.year}
		s.advance()
		if s.Month != tt.wantMonth || s.Year != tt.wantYear {
			t.Fatalf("advance(%d/%d) = %d/%d, want %d/%d",
				tt.month, tt.year, s.Month, s.Year, tt.wantMonth, tt.wantYear)
		}
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(0); got != "January" {
		t.Fatalf("MonthName(0) = %q", got)
	}
	if got := SimTime(11, 2017); got != "December 2017" {
		t.Fatalf("SimTime = %q", got)
	}
	if got := MonthName(12); got != "Unknown" {
		t.Fatalf("MonthName(12) = %q", got)
	}
}

func TestSeasonOf(t *testing.T) {
	want := []string{
		"Winter", "Winter", "Spring", "Spring", "Spring", "Summer",
		"Summer", "Summer", "Autumn", "Autumn", "Autumn", "Winter",
	}
	for month, name := range want {
		if got := SeasonName(SeasonOf(month)); got != name {
			t.Fatalf("season of %s = %s, want %s", MonthName(month), got, name)
		}
	}
}
