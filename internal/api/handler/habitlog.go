package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/api/response"
	"github.com/habitloop/habitloop/internal/habitlog"
)

// HabitLogHandler handles habit log endpoints.
type HabitLogHandler struct {
	logService *habitlog.Service
}

// NewHabitLogHandler creates a new HabitLogHandler.
func NewHabitLogHandler(logService *habitlog.Service) *HabitLogHandler {
	return &HabitLogHandler{logService: logService}
}

// ListLogs handles GET /v1/logs - list habit logs.
func (h *HabitLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := habitlog.Filter{
		HabitID: q.Get("habitId"),
		UserID:  q.Get("userId"),
	}
	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		filter.Completed = &completed
	}
	if v := q.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(w, r, "from must be an RFC 3339 timestamp", nil)
			return
		}
		filter.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(w, r, "to must be an RFC 3339 timestamp", nil)
			return
		}
		filter.To = &to
	}

	page := queryInt(q.Get("page"), 1)
	limit := queryInt(q.Get("limit"), 10)

	result, err := h.logService.List(r.Context(), filter, page, limit, q.Get("sortBy"), q.Get("order"))
	if err != nil {
		response.InternalError(w, r, "failed to list logs")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetLog handles GET /v1/logs/{logId} - get a log by ID.
func (h *HabitLogHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	logID := chi.URLParam(r, "logId")

	result, err := h.logService.Get(r.Context(), logID)
	if err != nil {
		if errors.Is(err, habitlog.ErrLogNotFound) {
			response.NotFound(w, r, "log not found")
			return
		}
		response.InternalError(w, r, "failed to get log")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// CreateLog handles POST /v1/logs - record a habit occurrence.
func (h *HabitLogHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var input models.HabitLogCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.logService.Create(r.Context(), &input)
	if err != nil {
		var validationErr *habitlog.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}
		if errors.Is(err, habitlog.ErrHabitNotFound) {
			response.NotFound(w, r, "habit not found")
			return
		}
		if existing, ok := habitlog.AsDuplicate(err); ok {
			// Surface the existing record so clients can switch to an update.
			apiLog := habitlog.ToAPILog(existing)
			response.JSON(w, r, http.StatusConflict, map[string]any{
				"detail":      "log already exists for this habit and day",
				"existingLog": apiLog,
			})
			return
		}
		response.InternalError(w, r, "failed to create log")
		return
	}

	location := fmt.Sprintf("/v1/logs/%s", result.ID)
	response.Created(w, r, location, result)
}

// UpdateLog handles PUT /v1/logs/{logId} - update a log.
func (h *HabitLogHandler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	logID := chi.URLParam(r, "logId")

	var input models.HabitLogUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.logService.Update(r.Context(), logID, &input)
	if err != nil {
		var validationErr *habitlog.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}
		if errors.Is(err, habitlog.ErrLogNotFound) {
			response.NotFound(w, r, "log not found")
			return
		}
		if errors.Is(err, habitlog.ErrDuplicateLog) {
			response.Conflict(w, r, "log already exists for this habit and day")
			return
		}
		response.InternalError(w, r, "failed to update log")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// DeleteLog handles DELETE /v1/logs/{logId} - delete a log.
func (h *HabitLogHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	logID := chi.URLParam(r, "logId")

	if err := h.logService.Delete(r.Context(), logID); err != nil {
		if errors.Is(err, habitlog.ErrLogNotFound) {
			response.NotFound(w, r, "log not found")
			return
		}
		response.InternalError(w, r, "failed to delete log")
		return
	}

	response.NoContent(w, r)
}
