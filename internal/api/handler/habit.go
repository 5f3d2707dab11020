package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/api/response"
	"github.com/habitloop/habitloop/internal/habit"
)

// HabitHandler handles habit endpoints.
type HabitHandler struct {
	habitService *habit.Service
}

// NewHabitHandler creates a new HabitHandler.
func NewHabitHandler(habitService *habit.Service) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

// ListHabits handles GET /v1/habits - search and list habits.
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := habit.Filter{
		UserID:    q.Get("userId"),
		Category:  q.Get("category"),
		Frequency: q.Get("frequency"),
		Search:    q.Get("search"),
	}
	if v := q.Get("isActive"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	page := queryInt(q.Get("page"), 1)
	limit := queryInt(q.Get("limit"), 10)

	result, err := h.habitService.List(r.Context(), filter, page, limit, q.Get("sortBy"), q.Get("order"))
	if err != nil {
		response.InternalError(w, r, "failed to list habits")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetHabit handles GET /v1/habits/{habitId} - get a habit by ID.
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitId")

	result, err := h.habitService.Get(r.Context(), habitID)
	if err != nil {
		if errors.Is(err, habit.ErrHabitNotFound) {
			response.NotFound(w, r, "habit not found")
			return
		}
		response.InternalError(w, r, "failed to get habit")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// CreateHabit handles POST /v1/habits - create a habit.
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var input models.HabitCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.habitService.Create(r.Context(), &input)
	if err != nil {
		var validationErr *habit.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}
		if errors.Is(err, habit.ErrOwnerNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to create habit")
		return
	}

	location := fmt.Sprintf("/v1/habits/%s", result.ID)
	response.Created(w, r, location, result)
}

// UpdateHabit handles PUT /v1/habits/{habitId} - update a habit.
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitId")

	var input models.HabitUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.habitService.Update(r.Context(), habitID, &input)
	if err != nil {
		var validationErr *habit.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}
		if errors.Is(err, habit.ErrHabitNotFound) {
			response.NotFound(w, r, "habit not found")
			return
		}
		response.InternalError(w, r, "failed to update habit")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// DeleteHabit handles DELETE /v1/habits/{habitId} - delete a habit.
// The default is a soft delete that clears the active flag and keeps logs.
// With ?hard=true the habit and all of its logs are removed.
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitId")

	if r.URL.Query().Get("hard") == "true" {
		removed, err := h.habitService.Delete(r.Context(), habitID)
		if err != nil {
			if errors.Is(err, habit.ErrHabitNotFound) {
				response.NotFound(w, r, "habit not found")
				return
			}
			response.InternalError(w, r, "failed to delete habit")
			return
		}
		response.JSON(w, r, http.StatusOK, map[string]int{"deletedLogs": removed})
		return
	}

	if err := h.habitService.Archive(r.Context(), habitID); err != nil {
		if errors.Is(err, habit.ErrHabitNotFound) {
			response.NotFound(w, r, "habit not found")
			return
		}
		response.InternalError(w, r, "failed to delete habit")
		return
	}

	response.NoContent(w, r)
}
