package stats_test

import (
	"testing"
	"time"

	"github.com/habitloop/habitloop/internal/habitlog"
	"github.com/habitloop/habitloop/internal/stats"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{name: "zero total", completed: 0, total: 0, want: 0},
		{name: "zero completed", completed: 0, total: 5, want: 0},
		{name: "all completed", completed: 5, total: 5, want: 100},
		{name: "two thirds", completed: 2, total: 3, want: 66.67},
		{name: "one third", completed: 1, total: 3, want: 33.33},
		{name: "three quarters", completed: 3, total: 4, want: 75},
		{name: "one sixth", completed: 1, total: 6, want: 16.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stats.CompletionRate(tt.completed, tt.total)
			if got != tt.want {
				t.Errorf("CompletionRate(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestCurrentStreak_Empty(t *testing.T) {
	if got := stats.CurrentStreak(nil); got != 0 {
		t.Errorf("expected streak 0 for empty input, got %d", got)
	}
}

func TestCurrentStreak_SingleCompleted(t *testing.T) {
	logs := []*habitlog.Log{logOn("2024-01-01", true)}
	if got := stats.CurrentStreak(logs); got != 1 {
		t.Errorf("expected streak 1, got %d", got)
	}
}

func TestCurrentStreak_StopsAtFirstIncomplete(t *testing.T) {
	logs := []*habitlog.Log{
		logOn("2024-01-01", true),
		logOn("2024-01-02", false),
		logOn("2024-01-03", true),
		logOn("2024-01-04", true),
	}
	if got := stats.CurrentStreak(logs); got != 2 {
		t.Errorf("expected streak 2, got %d", got)
	}
}

func TestCurrentStreak_MostRecentIncomplete(t *testing.T) {
	logs := []*habitlog.Log{
		logOn("2024-01-01", true),
		logOn("2024-01-02", true),
		logOn("2024-01-03", false),
	}
	if got := stats.CurrentStreak(logs); got != 0 {
		t.Errorf("expected streak 0 when most recent log is incomplete, got %d", got)
	}
}

func TestCurrentStreak_InputOrderIndependent(t *testing.T) {
	logs := []*habitlog.Log{
		logOn("2024-01-03", true),
		logOn("2024-01-01", false),
		logOn("2024-01-02", true),
	}
	if got := stats.CurrentStreak(logs); got != 2 {
		t.Errorf("expected streak 2 regardless of input order, got %d", got)
	}
	if !logs[0].Date.After(logs[1].Date) {
		t.Error("expected input slice to be left unmodified")
	}
}

func logOn(day string, completed bool) *habitlog.Log {
	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return &habitlog.Log{
		Date:       date,
		DateString: habitlog.DateKey(date),
		Completed:  completed,
	}
}
