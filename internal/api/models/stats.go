package models

// HabitStats is the full statistics report for a single habit.
type HabitStats struct {
	Habit          Habit      `json:"habit"`
	TotalLogs      int        `json:"totalLogs"`
	CompletedCount int        `json:"completedCount"`
	CompletionRate float64    `json:"completionRate"`
	CurrentStreak  int        `json:"currentStreak"`
	Logs           []HabitLog `json:"logs"`
}

// UserRef identifies the user a statistics report belongs to.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserStatsSummary aggregates a user's habits and logs.
type UserStatsSummary struct {
	TotalHabits    int     `json:"totalHabits"`
	ActiveHabits   int     `json:"activeHabits"`
	TotalLogs      int     `json:"totalLogs"`
	CompletedLogs  int     `json:"completedLogs"`
	CompletionRate float64 `json:"completionRate"`
}

// HabitBreakdown is the per-habit entry in a user statistics report.
type HabitBreakdown struct {
	HabitID        string   `json:"habitId"`
	Title          string   `json:"title"`
	Category       Category `json:"category"`
	TotalLogs      int      `json:"totalLogs"`
	CompletedCount int      `json:"completedCount"`
	CompletionRate float64  `json:"completionRate"`
	CurrentStreak  int      `json:"currentStreak"`
}

// UserStats is the full statistics report for a single user.
type UserStats struct {
	User    UserRef          `json:"user"`
	Summary UserStatsSummary `json:"summary"`
	Habits  []HabitBreakdown `json:"habits"`
}

// TrendPoint is the per-day entry in a trends report.
type TrendPoint struct {
	Date           string  `json:"date"`
	CompletionRate float64 `json:"completionRate"`
	LogsCompleted  int     `json:"logsCompleted"`
	TotalLogs      int     `json:"totalLogs"`
}

// Trends is a day-by-day completion report over a trailing window.
type Trends struct {
	Period    string       `json:"period"`
	TotalLogs int          `json:"totalLogs"`
	Trends    []TrendPoint `json:"trends"`
}

// PeriodStats aggregates a user's logs over a calendar period.
type PeriodStats struct {
	Period         Period    `json:"period"`
	StartDate      Timestamp `json:"startDate"`
	EndDate        Timestamp `json:"endDate"`
	TotalLogs      int       `json:"totalLogs"`
	CompletedLogs  int       `json:"completedLogs"`
	CompletionRate float64   `json:"completionRate"`
}

// CategoryStats aggregates active habits within one category.
type CategoryStats struct {
	Category       Category  `json:"category"`
	TotalHabits    int       `json:"totalHabits"`
	FirstCreatedAt Timestamp `json:"firstCreatedAt"`
	LastCreatedAt  Timestamp `json:"lastCreatedAt"`
}

// TopHabit is one entry in the global top-habits ranking.
type TopHabit struct {
	HabitID        string   `json:"habitId"`
	Title          string   `json:"title"`
	Category       Category `json:"category"`
	TotalLogs      int      `json:"totalLogs"`
	CompletedCount int      `json:"completedCount"`
	CompletionRate float64  `json:"completionRate"`
}

// Overview is the global dashboard report.
type Overview struct {
	TotalUsers           int     `json:"totalUsers"`
	TotalHabits          int     `json:"totalHabits"`
	TotalLogs            int     `json:"totalLogs"`
	HabitsThisMonth      int     `json:"habitsThisMonth"`
	UsersThisMonth       int     `json:"usersThisMonth"`
	AverageHabitsPerUser float64 `json:"averageHabitsPerUser"`
}

// HabitSummary is the condensed habit form used in cross-entity reports.
type HabitSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Frequency Frequency `json:"frequency"`
}

// UserWithHabits is one entry in the cross-entity user report.
type UserWithHabits struct {
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	CreatedAt      Timestamp      `json:"createdAt"`
	TotalHabits    int            `json:"totalHabits"`
	TotalLogs      int            `json:"totalLogs"`
	CompletedLogs  int            `json:"completedLogs"`
	CompletionRate float64        `json:"completionRate"`
	Habits         []HabitSummary `json:"habits"`
}

// TopCompletedHabit is one entry in a user's most-logged habits ranking.
type TopCompletedHabit struct {
	HabitID string `json:"habitId"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
}

// MoodTrend is the per-(habit, mood) entry in a mood breakdown.
type MoodTrend struct {
	HabitID string `json:"habitId"`
	Title   string `json:"title"`
	Mood    Mood   `json:"mood"`
	Count   int    `json:"count"`
}

// MoodCount pairs a mood with its occurrence count.
type MoodCount struct {
	Mood  Mood `json:"mood"`
	Count int  `json:"count"`
}

// MonthlyHabitStats is the per-(habit, month) entry in a yearly rollup.
type MonthlyHabitStats struct {
	HabitID     string      `json:"habitId"`
	Title       string      `json:"title"`
	Month       string      `json:"month"`
	AvgDuration float64     `json:"avgDuration"`
	MoodStats   []MoodCount `json:"moodStats"`
	TotalLogs   int         `json:"totalLogs"`
}

// StatsExport is the document written by a statistics export.
type StatsExport struct {
	ExportDate  Timestamp    `json:"exportDate"`
	UserID      string       `json:"userId"`
	Period      Period       `json:"period"`
	UserStats   *UserStats   `json:"userStats"`
	PeriodStats *PeriodStats `json:"periodStats"`
	Trends      *Trends      `json:"trends"`
}

// StatsExportResult reports where an export was written.
type StatsExportResult struct {
	File string       `json:"file"`
	Data *StatsExport `json:"data"`
}
