// Seasons of the simulated calendar.
package engine

// Season constants.
const (
	SeasonWinter = 0
	SeasonSpring = 1
	SeasonSummer = 2
	SeasonAutumn = 3
)

// SeasonOf returns the season of a 0-based month. December, January and
// February are winter.
func SeasonOf(month int) uint8 {
	return uint8(((month + 1) % 12) / 3)
}

// SeasonName returns a human-readable season name.
func SeasonName(season uint8) string {
	switch season {
	case SeasonWinter:
		return "Winter"
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonAutumn:
		return "Autumn"
	default:
		return "Unknown"
	}
}
