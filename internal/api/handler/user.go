package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/api/response"
	"github.com/habitloop/habitloop/internal/user"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	userService *user.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles GET /v1/users - search and list users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := user.Filter{Search: q.Get("search")}
	if v := q.Get("isActive"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	page := queryInt(q.Get("page"), 1)
	limit := queryInt(q.Get("limit"), 10)

	result, err := h.userService.List(r.Context(), filter, page, limit, q.Get("sortBy"), q.Get("order"))
	if err != nil {
		response.InternalError(w, r, "failed to list users")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetUser handles GET /v1/users/{userId} - get a user by ID.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	result, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to get user")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// UpdateUser handles PUT /v1/users/{userId} - update a user.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var input models.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.userService.Update(r.Context(), userID, &input)
	if err != nil {
		var validationErr *user.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		if errors.Is(err, user.ErrUserExists) {
			response.Conflict(w, r, "username or email already in use")
			return
		}
		response.InternalError(w, r, "failed to update user")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// DeleteUser handles DELETE /v1/users/{userId} - delete a user.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to delete user")
		return
	}

	response.NoContent(w, r)
}

// queryInt parses a query parameter as a positive integer with a fallback.
func queryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
