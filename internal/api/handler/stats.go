package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/api/response"
	"github.com/habitloop/habitloop/internal/export"
	"github.com/habitloop/habitloop/internal/habit"
	"github.com/habitloop/habitloop/internal/stats"
	"github.com/habitloop/habitloop/internal/user"
)

// StatsHandler handles statistics and analytics endpoints.
type StatsHandler struct {
	statsService *stats.Service
	exporter     *export.Exporter
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *stats.Service, exporter *export.Exporter) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		exporter:     exporter,
	}
}

// GetHabitStats handles GET /v1/stats/habits/{habitId} - per-habit report.
func (h *StatsHandler) GetHabitStats(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitId")

	result, err := h.statsService.HabitStats(r.Context(), habitID)
	if err != nil {
		if errors.Is(err, habit.ErrHabitNotFound) {
			response.NotFound(w, r, "habit not found")
			return
		}
		response.InternalError(w, r, "failed to compute habit stats")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetUserStats handles GET /v1/stats/users/{userId} - per-user report.
func (h *StatsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	result, err := h.statsService.UserStats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to compute user stats")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetTrends handles GET /v1/stats/users/{userId}/trends - daily completion buckets.
func (h *StatsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	days := queryInt(r.URL.Query().Get("days"), 0)

	result, err := h.statsService.Trends(r.Context(), userID, days)
	if err != nil {
		response.InternalError(w, r, "failed to compute trends")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetPeriodStats handles GET /v1/stats/users/{userId}/period - calendar-period report.
func (h *StatsHandler) GetPeriodStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	period := models.Period(r.URL.Query().Get("period"))

	result, err := h.statsService.PeriodStats(r.Context(), userID, period)
	if err != nil {
		response.InternalError(w, r, "failed to compute period stats")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetCategoryStats handles GET /v1/stats/categories - active habits per category.
func (h *StatsHandler) GetCategoryStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.statsService.CategoryStats(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to compute category stats")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetTopHabits handles GET /v1/stats/top-habits - global ranking by log count.
func (h *StatsHandler) GetTopHabits(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r.URL.Query().Get("limit"), stats.DefaultTopHabitsLimit)

	result, err := h.statsService.TopHabits(r.Context(), limit)
	if err != nil {
		response.InternalError(w, r, "failed to rank habits")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetOverview handles GET /v1/stats/overview - global dashboard counters.
func (h *StatsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	result, err := h.statsService.Overview(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to compute overview")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetUsersWithHabits handles GET /v1/stats/users-with-habits - cross-entity report.
func (h *StatsHandler) GetUsersWithHabits(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r.URL.Query().Get("limit"), stats.DefaultUsersWithHabitsLimit)

	result, err := h.statsService.UsersWithHabits(r.Context(), limit)
	if err != nil {
		response.InternalError(w, r, "failed to compute users with habits")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetTopCompletedHabits handles GET /v1/stats/users/{userId}/top-completed.
func (h *StatsHandler) GetTopCompletedHabits(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	limit := queryInt(r.URL.Query().Get("limit"), stats.DefaultTopCompletedLimit)

	result, err := h.statsService.TopCompletedHabits(r.Context(), userID, limit)
	if err != nil {
		response.InternalError(w, r, "failed to rank completed habits")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetMoodTrends handles GET /v1/stats/users/{userId}/moods - mood breakdown.
func (h *StatsHandler) GetMoodTrends(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	result, err := h.statsService.MoodTrends(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to compute mood trends")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetMonthlyStats handles GET /v1/stats/users/{userId}/monthly?year=YYYY.
func (h *StatsHandler) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	year := time.Now().UTC().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, r, "year must be an integer", nil)
			return
		}
		year = parsed
	}

	result, err := h.statsService.MonthlyStats(r.Context(), userID, year)
	if err != nil {
		response.InternalError(w, r, "failed to compute monthly stats")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// ExportStats handles POST /v1/stats/export - write a stats snapshot to disk.
func (h *StatsHandler) ExportStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		response.BadRequest(w, r, "userId is required", nil)
		return
	}

	result, err := h.exporter.Export(r.Context(), userID, models.Period(q.Get("period")))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to export stats")
		return
	}

	response.JSON(w, r, http.StatusCreated, result)
}
