package ledger

import (
	"math"
	"time"
)

// reportStep is the minimum percentage change worth persisting during playback.
const reportStep = 5

// PlaybackPercent converts a playback position to a whole percentage.
func PlaybackPercent(position, duration time.Duration) int {
	if duration <= 0 || position <= 0 {
		return 0
	}
	pct := int(math.Round(float64(position) / float64(duration) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// ShouldReport reports whether next differs enough from current to be written.
func ShouldReport(current, next int) bool {
	if next == 100 {
		return true
	}
	diff := next - current
	if diff < 0 {
		diff = -diff
	}
	return diff >= reportStep
}
