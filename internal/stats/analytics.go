package stats

import (
	"context"
	"sort"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/habit"
	"github.com/habitloop/habitloop/internal/habitlog"
)

// DefaultTopCompletedLimit caps the most-logged ranking for one user.
const DefaultTopCompletedLimit = 3

// TopCompletedHabits ranks a user's habits by completed log count.
// Logs whose habit no longer exists are dropped.
func (s *Service) TopCompletedHabits(ctx context.Context, userID string, limit int) ([]models.TopCompletedHabit, error) {
	if limit <= 0 {
		limit = DefaultTopCompletedLimit
	}

	completed := true
	logs, err := s.logs.Find(ctx, habitlog.Filter{UserID: userID, Completed: &completed}, habitlog.ListOptions{})
	if err != nil {
		return nil, err
	}

	titles, err := s.habitTitles(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, l := range logs {
		if _, ok := titles[l.HabitID]; !ok {
			continue
		}
		counts[l.HabitID]++
	}

	result := make([]models.TopCompletedHabit, 0, len(counts))
	for id, count := range counts {
		result = append(result, models.TopCompletedHabit{
			HabitID: id,
			Title:   titles[id],
			Count:   count,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Title < result[j].Title
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MoodTrends counts a user's logs per (habit, mood) pair. Logs without a
// recorded mood are skipped.
func (s *Service) MoodTrends(ctx context.Context, userID string) ([]models.MoodTrend, error) {
	logs, err := s.logs.Find(ctx, habitlog.Filter{UserID: userID}, habitlog.ListOptions{})
	if err != nil {
		return nil, err
	}

	titles, err := s.habitTitles(ctx, userID)
	if err != nil {
		return nil, err
	}

	type key struct {
		habitID string
		mood    models.Mood
	}
	counts := make(map[key]int)
	for _, l := range logs {
		if l.Mood == "" {
			continue
		}
		if _, ok := titles[l.HabitID]; !ok {
			continue
		}
		counts[key{habitID: l.HabitID, mood: l.Mood}]++
	}

	result := make([]models.MoodTrend, 0, len(counts))
	for k, count := range counts {
		result = append(result, models.MoodTrend{
			HabitID: k.habitID,
			Title:   titles[k.habitID],
			Mood:    k.mood,
			Count:   count,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		if result[i].Title != result[j].Title {
			return result[i].Title < result[j].Title
		}
		return result[i].Mood < result[j].Mood
	})
	return result, nil
}

// MonthlyStats rolls a user's logs up per habit and calendar month for one
// year: log counts, average duration and a mood histogram.
func (s *Service) MonthlyStats(ctx context.Context, userID string, year int) ([]models.MonthlyHabitStats, error) {
	logs, err := s.logs.Find(ctx, habitlog.Filter{UserID: userID}, habitlog.ListOptions{})
	if err != nil {
		return nil, err
	}

	titles, err := s.habitTitles(ctx, userID)
	if err != nil {
		return nil, err
	}

	type key struct {
		habitID string
		month   string
	}
	type rollup struct {
		totalLogs     int
		durationSum   int
		durationCount int
		moods         map[models.Mood]int
	}
	groups := make(map[key]*rollup)
	for _, l := range logs {
		if l.Date.UTC().Year() != year {
			continue
		}
		if _, ok := titles[l.HabitID]; !ok {
			continue
		}

		// Month key is the YYYY-MM prefix of the day key.
		k := key{habitID: l.HabitID, month: l.DateString[:7]}
		r := groups[k]
		if r == nil {
			r = &rollup{moods: make(map[models.Mood]int)}
			groups[k] = r
		}
		r.totalLogs++
		if l.Duration != nil {
			r.durationSum += *l.Duration
			r.durationCount++
		}
		if l.Mood != "" {
			r.moods[l.Mood]++
		}
	}

	result := make([]models.MonthlyHabitStats, 0, len(groups))
	for k, r := range groups {
		avg := 0.0
		if r.durationCount > 0 {
			avg = round2(float64(r.durationSum) / float64(r.durationCount))
		}

		moodStats := make([]models.MoodCount, 0, len(r.moods))
		for mood, count := range r.moods {
			moodStats = append(moodStats, models.MoodCount{Mood: mood, Count: count})
		}
		sort.SliceStable(moodStats, func(i, j int) bool {
			if moodStats[i].Count != moodStats[j].Count {
				return moodStats[i].Count > moodStats[j].Count
			}
			return moodStats[i].Mood < moodStats[j].Mood
		})

		result = append(result, models.MonthlyHabitStats{
			HabitID:     k.habitID,
			Title:       titles[k.habitID],
			Month:       k.month,
			AvgDuration: avg,
			MoodStats:   moodStats,
			TotalLogs:   r.totalLogs,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Month != result[j].Month {
			return result[i].Month < result[j].Month
		}
		return result[i].Title < result[j].Title
	})
	return result, nil
}

// habitTitles maps a user's habit IDs to titles for the lossy log joins.
func (s *Service) habitTitles(ctx context.Context, userID string) (map[string]string, error) {
	habits, err := s.habits.Find(ctx, habit.Filter{UserID: userID}, habit.ListOptions{})
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(habits))
	for _, h := range habits {
		titles[h.ID] = h.Title
	}
	return titles, nil
}
