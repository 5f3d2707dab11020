package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/habit"
	"github.com/habitloop/habitloop/internal/habitlog"
	"github.com/habitloop/habitloop/internal/user"
)

// Default result caps for the ranking endpoints.
const (
	DefaultTopHabitsLimit       = 5
	DefaultUsersWithHabitsLimit = 10
	DefaultTrendWindowDays      = 30
)

// Service computes statistics reports over the three repositories.
// Every call is a pure read and compute pass; nothing is cached between
// calls, and concurrent writes are tolerated as reporting skew.
type Service struct {
	users  user.Repository
	habits habit.Repository
	logs   habitlog.Repository
}

// NewService creates a new statistics service.
func NewService(users user.Repository, habits habit.Repository, logs habitlog.Repository) *Service {
	return &Service{users: users, habits: habits, logs: logs}
}

// HabitStats builds the full report for one habit: completion rate, current
// streak and the log history sorted most recent first.
func (s *Service) HabitStats(ctx context.Context, habitID string) (*models.HabitStats, error) {
	h, err := s.habits.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logs.Find(ctx, habitlog.Filter{HabitID: habitID}, habitlog.ListOptions{
		SortBy: "date",
		Order:  "desc",
	})
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, l := range logs {
		if l.Completed {
			completed++
		}
	}

	items := make([]models.HabitLog, 0, len(logs))
	for _, l := range logs {
		items = append(items, habitlog.ToAPILog(l))
	}

	return &models.HabitStats{
		Habit:          toAPIHabit(h),
		TotalLogs:      len(logs),
		CompletedCount: completed,
		CompletionRate: CompletionRate(completed, len(logs)),
		CurrentStreak:  CurrentStreak(logs),
		Logs:           items,
	}, nil
}

// UserStats builds the full report for one user: an overall summary plus a
// per-habit breakdown. Fails with the user repository's not-found error when
// the user does not exist.
func (s *Service) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	habits, err := s.habits.Find(ctx, habit.Filter{UserID: userID}, habit.ListOptions{})
	if err != nil {
		return nil, err
	}

	logs, err := s.logs.Find(ctx, habitlog.Filter{UserID: userID}, habitlog.ListOptions{})
	if err != nil {
		return nil, err
	}

	active := 0
	for _, h := range habits {
		if h.IsActive {
			active++
		}
	}
	completed := 0
	for _, l := range logs {
		if l.Completed {
			completed++
		}
	}

	breakdown := make([]models.HabitBreakdown, 0, len(habits))
	for _, h := range habits {
		var habitLogs []*habitlog.Log
		for _, l := range logs {
			if l.HabitID == h.ID {
				habitLogs = append(habitLogs, l)
			}
		}

		habitCompleted := 0
		for _, l := range habitLogs {
			if l.Completed {
				habitCompleted++
			}
		}

		breakdown = append(breakdown, models.HabitBreakdown{
			HabitID:        h.ID,
			Title:          h.Title,
			Category:       h.Category,
			TotalLogs:      len(habitLogs),
			CompletedCount: habitCompleted,
			CompletionRate: CompletionRate(habitCompleted, len(habitLogs)),
			CurrentStreak:  CurrentStreak(habitLogs),
		})
	}

	return &models.UserStats{
		User: models.UserRef{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
		},
		Summary: models.UserStatsSummary{
			TotalHabits:    len(habits),
			ActiveHabits:   active,
			TotalLogs:      len(logs),
			CompletedLogs:  completed,
			CompletionRate: CompletionRate(completed, len(logs)),
		},
		Habits: breakdown,
	}, nil
}

// Trends buckets a user's logs by UTC calendar day over a trailing window
// and computes the per-day completion rate. Days are sorted ascending.
func (s *Service) Trends(ctx context.Context, userID string, windowDays int) (*models.Trends, error) {
	if windowDays <= 0 {
		windowDays = DefaultTrendWindowDays
	}

	cutoff := time.Now().AddDate(0, 0, -windowDays)
	logs, err := s.logs.Find(ctx, habitlog.Filter{UserID: userID, From: &cutoff}, habitlog.ListOptions{})
	if err != nil {
		return nil, err
	}

	type bucket struct {
		total     int
		completed int
	}
	days := make(map[string]*bucket)
	for _, l := range logs {
		b := days[l.DateString]
		if b == nil {
			b = &bucket{}
			days[l.DateString] = b
		}
		b.total++
		if l.Completed {
			b.completed++
		}
	}

	keys := make([]string, 0, len(days))
	for day := range days {
		keys = append(keys, day)
	}
	sort.Strings(keys)

	points := make([]models.TrendPoint, 0, len(keys))
	for _, day := range keys {
		b := days[day]
		points = append(points, models.TrendPoint{
			Date:           day,
			CompletionRate: CompletionRate(b.completed, b.total),
			LogsCompleted:  b.completed,
			TotalLogs:      b.total,
		})
	}

	return &models.Trends{
		Period:    fmt.Sprintf("last %d days", windowDays),
		TotalLogs: len(logs),
		Trends:    points,
	}, nil
}

// PeriodStats aggregates a user's logs over the current calendar period.
// Unrecognized periods fall back to a 30-day trailing window.
func (s *Service) PeriodStats(ctx context.Context, userID string, period models.Period) (*models.PeriodStats, error) {
	now := time.Now()
	if period == "" {
		period = models.PeriodMonthly
	}

	var start time.Time
	switch period {
	case models.PeriodWeekly:
		start = now.AddDate(0, 0, -7)
	case models.PeriodMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case models.PeriodYearly:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		start = now.AddDate(0, 0, -30)
	}

	logs, err := s.logs.Find(ctx, habitlog.Filter{UserID: userID, From: &start}, habitlog.ListOptions{})
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, l := range logs {
		if l.Completed {
			completed++
		}
	}

	return &models.PeriodStats{
		Period:         period,
		StartDate:      models.Timestamp(start),
		EndDate:        models.Timestamp(now),
		TotalLogs:      len(logs),
		CompletedLogs:  completed,
		CompletionRate: CompletionRate(completed, len(logs)),
	}, nil
}

// CategoryStats groups all active habits by category with counts and
// creation-date bounds, sorted by habit count descending.
func (s *Service) CategoryStats(ctx context.Context) ([]models.CategoryStats, error) {
	active := true
	habits, err := s.habits.Find(ctx, habit.Filter{IsActive: &active}, habit.ListOptions{})
	if err != nil {
		return nil, err
	}

	groups := make(map[models.Category][]*habit.Habit)
	for _, h := range habits {
		groups[h.Category] = append(groups[h.Category], h)
	}

	result := make([]models.CategoryStats, 0, len(groups))
	for category, group := range groups {
		first, last := group[0].CreatedAt, group[0].CreatedAt
		for _, h := range group[1:] {
			if h.CreatedAt.Before(first) {
				first = h.CreatedAt
			}
			if h.CreatedAt.After(last) {
				last = h.CreatedAt
			}
		}
		result = append(result, models.CategoryStats{
			Category:       category,
			TotalHabits:    len(group),
			FirstCreatedAt: models.Timestamp(first),
			LastCreatedAt:  models.Timestamp(last),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalHabits != result[j].TotalHabits {
			return result[i].TotalHabits > result[j].TotalHabits
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// TopHabits ranks habits globally by log count. Logs whose habit no longer
// exists are dropped from the ranking.
func (s *Service) TopHabits(ctx context.Context, limit int) ([]models.TopHabit, error) {
	if limit <= 0 {
		limit = DefaultTopHabitsLimit
	}

	habits, err := s.habits.Find(ctx, habit.Filter{}, habit.ListOptions{})
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.Find(ctx, habitlog.Filter{}, habitlog.ListOptions{})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*habit.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	type tally struct {
		total     int
		completed int
	}
	counts := make(map[string]*tally)
	for _, l := range logs {
		if _, ok := byID[l.HabitID]; !ok {
			continue
		}
		t := counts[l.HabitID]
		if t == nil {
			t = &tally{}
			counts[l.HabitID] = t
		}
		t.total++
		if l.Completed {
			t.completed++
		}
	}

	result := make([]models.TopHabit, 0, len(counts))
	for id, t := range counts {
		h := byID[id]
		result = append(result, models.TopHabit{
			HabitID:        id,
			Title:          h.Title,
			Category:       h.Category,
			TotalLogs:      t.total,
			CompletedCount: t.completed,
			CompletionRate: CompletionRate(t.completed, t.total),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalLogs != result[j].TotalLogs {
			return result[i].TotalLogs > result[j].TotalLogs
		}
		if result[i].CompletionRate != result[j].CompletionRate {
			return result[i].CompletionRate > result[j].CompletionRate
		}
		return result[i].Title < result[j].Title
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Overview computes the global dashboard counters.
func (s *Service) Overview(ctx context.Context) (*models.Overview, error) {
	totalUsers, err := s.users.Count(ctx, user.Filter{})
	if err != nil {
		return nil, err
	}
	totalHabits, err := s.habits.Count(ctx, habit.Filter{})
	if err != nil {
		return nil, err
	}
	totalLogs, err := s.logs.Count(ctx, habitlog.Filter{})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	usersThisMonth, err := s.users.Count(ctx, user.Filter{CreatedAfter: &monthStart})
	if err != nil {
		return nil, err
	}
	habitsThisMonth, err := s.habits.Count(ctx, habit.Filter{CreatedAfter: &monthStart})
	if err != nil {
		return nil, err
	}

	avg := 0.0
	if totalUsers > 0 {
		avg = round2(float64(totalHabits) / float64(totalUsers))
	}

	return &models.Overview{
		TotalUsers:           totalUsers,
		TotalHabits:          totalHabits,
		TotalLogs:            totalLogs,
		HabitsThisMonth:      habitsThisMonth,
		UsersThisMonth:       usersThisMonth,
		AverageHabitsPerUser: avg,
	}, nil
}

// UsersWithHabits attaches habit and log rollups to every user, sorted by
// habit count descending and truncated to limit.
func (s *Service) UsersWithHabits(ctx context.Context, limit int) ([]models.UserWithHabits, error) {
	if limit <= 0 {
		limit = DefaultUsersWithHabitsLimit
	}

	users, err := s.users.Find(ctx, user.Filter{}, user.ListOptions{})
	if err != nil {
		return nil, err
	}
	habits, err := s.habits.Find(ctx, habit.Filter{}, habit.ListOptions{})
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.Find(ctx, habitlog.Filter{}, habitlog.ListOptions{})
	if err != nil {
		return nil, err
	}

	habitsByUser := make(map[string][]*habit.Habit)
	for _, h := range habits {
		habitsByUser[h.UserID] = append(habitsByUser[h.UserID], h)
	}

	type tally struct {
		total     int
		completed int
	}
	logsByUser := make(map[string]*tally)
	for _, l := range logs {
		t := logsByUser[l.UserID]
		if t == nil {
			t = &tally{}
			logsByUser[l.UserID] = t
		}
		t.total++
		if l.Completed {
			t.completed++
		}
	}

	result := make([]models.UserWithHabits, 0, len(users))
	for _, u := range users {
		owned := habitsByUser[u.ID]
		summaries := make([]models.HabitSummary, 0, len(owned))
		for _, h := range owned {
			summaries = append(summaries, models.HabitSummary{
				ID:        h.ID,
				Title:     h.Title,
				Category:  h.Category,
				Frequency: h.Frequency,
			})
		}

		t := logsByUser[u.ID]
		if t == nil {
			t = &tally{}
		}

		result = append(result, models.UserWithHabits{
			Username:       u.Username,
			Email:          u.Email,
			CreatedAt:      models.Timestamp(u.CreatedAt),
			TotalHabits:    len(owned),
			TotalLogs:      t.total,
			CompletedLogs:  t.completed,
			CompletionRate: CompletionRate(t.completed, t.total),
			Habits:         summaries,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalHabits != result[j].TotalHabits {
			return result[i].TotalHabits > result[j].TotalHabits
		}
		return result[i].Username < result[j].Username
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func toAPIHabit(h *habit.Habit) models.Habit {
	return models.Habit{
		ID:          h.ID,
		UserID:      h.UserID,
		Title:       h.Title,
		Description: h.Description,
		Category:    h.Category,
		Frequency:   h.Frequency,
		TargetDays:  h.TargetDays,
		Icon:        h.Icon,
		Color:       h.Color,
		IsActive:    h.IsActive,
		CreatedAt:   models.Timestamp(h.CreatedAt),
		UpdatedAt:   models.Timestamp(h.UpdatedAt),
	}
}
