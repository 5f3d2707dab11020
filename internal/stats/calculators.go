// Package stats derives habit statistics from user, habit and log records.
//
// Everything here is computed at query time from the current log set.
// Completion rates are never stored.
package stats

import (
	"math"
	"sort"

	"github.com/habitloop/habitloop/internal/habitlog"
)

// CompletionRate returns completed/total as a percentage rounded to two
// decimals. A zero total yields 0, never NaN.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(completed) / float64(total) * 100)
}

// CurrentStreak returns the number of consecutive completed logs counting
// back from the most recent one. The first incomplete log ends the streak.
// The input is not modified.
func CurrentStreak(logs []*habitlog.Log) int {
	if len(logs) == 0 {
		return 0
	}

	sorted := make([]*habitlog.Log, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	streak := 0
	for _, l := range sorted {
		if !l.Completed {
			break
		}
		streak++
	}
	return streak
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
