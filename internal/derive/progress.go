package derive

import (
	"math"

	"github.com/tgienger/quill/internal/models"
)

// ProgressPercentage returns complete/target as a percentage clamped to [0, 100].
// A zero target yields 0.
func ProgressPercentage(complete, target int) float64 {
	if target <= 0 || complete <= 0 {
		return 0
	}
	return math.Min(float64(complete)/float64(target)*100, 100)
}

// TaskProgress is ProgressPercentage for a task
func TaskProgress(t models.Task) float64 {
	return ProgressPercentage(t.WordCountComplete, t.WordCountTarget)
}

// AddWords applies the "add words" shortcut: the new count is
// min(complete+n, target). It reports false when n is not positive.
func AddWords(t models.Task, n int) (int, bool) {
	if n <= 0 {
		return t.WordCountComplete, false
	}
	return min(t.WordCountComplete+n, t.WordCountTarget), true
}
