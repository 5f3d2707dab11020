package habitlog_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/habit"
	"github.com/habitloop/habitloop/internal/habitlog"
)

// newTestService wires a log service over in-memory repositories and
// seeds a habit to log against.
func newTestService(t *testing.T) (*habitlog.Service, string) {
	t.Helper()

	habitRepo := habit.NewInMemoryRepository()
	service := habitlog.NewService(habitlog.NewInMemoryRepository(), habitRepo)

	now := time.Now()
	h := &habit.Habit{
		ID:        "hab_test1",
		UserID:    "usr_owner1",
		Title:     "Morning run",
		Category:  models.CategoryFitness,
		Frequency: models.FrequencyDaily,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := habitRepo.Create(context.Background(), h); err != nil {
		t.Fatalf("failed to seed habit: %v", err)
	}

	return service, h.ID
}

func TestService_Create(t *testing.T) {
	service, habitID := newTestService(t)
	ctx := context.Background()

	result, err := service.Create(ctx, &models.HabitLogCreateRequest{
		HabitID: habitID,
	})
	if err != nil {
		t.Fatalf("failed to create log: %v", err)
	}

	if !strings.HasPrefix(result.ID, "log_") {
		t.Errorf("expected log ID to start with 'log_', got %q", result.ID)
	}
	// Owner comes from the habit, completion defaults to true,
	// and the day key is derived from the date
	if result.UserID != "usr_owner1" {
		t.Errorf("expected log user to come from habit, got %q", result.UserID)
	}
	if !result.Completed {
		t.Error("expected completed to default to true")
	}
	if result.Mood != models.MoodBon {
		t.Errorf("expected mood to default to %q, got %q", models.MoodBon, result.Mood)
	}
	wantKey := time.Now().UTC().Format("2006-01-02")
	if result.DateString != wantKey {
		t.Errorf("expected date string %q, got %q", wantKey, result.DateString)
	}
}

func TestService_Create_UnknownHabit(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), &models.HabitLogCreateRequest{
		HabitID: "hab_missing",
	})
	if !errors.Is(err, habitlog.ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestService_Create_DuplicateDay(t *testing.T) {
	service, habitID := newTestService(t)
	ctx := context.Background()

	first, err := service.Create(ctx, &models.HabitLogCreateRequest{HabitID: habitID})
	if err != nil {
		t.Fatalf("failed to create log: %v", err)
	}

	_, err = service.Create(ctx, &models.HabitLogCreateRequest{HabitID: habitID})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if !errors.Is(err, habitlog.ErrDuplicateLog) {
		t.Fatalf("expected ErrDuplicateLog, got %v", err)
	}

	existing, ok := habitlog.AsDuplicate(err)
	if !ok {
		t.Fatalf("expected duplicate error to carry the existing log, got %v", err)
	}
	if existing.ID != first.ID {
		t.Errorf("expected existing log %q, got %q", first.ID, existing.ID)
	}
}

func TestService_Create_SameHabitDifferentDays(t *testing.T) {
	service, habitID := newTestService(t)
	ctx := context.Background()

	today := models.Timestamp(time.Now())
	yesterday := models.Timestamp(time.Now().AddDate(0, 0, -1))

	if _, err := service.Create(ctx, &models.HabitLogCreateRequest{HabitID: habitID, Date: &today}); err != nil {
		t.Fatalf("failed to create log: %v", err)
	}
	if _, err := service.Create(ctx, &models.HabitLogCreateRequest{HabitID: habitID, Date: &yesterday}); err != nil {
		t.Fatalf("expected logs on different days to coexist: %v", err)
	}
}

func TestService_Create_ValidationErrors(t *testing.T) {
	service, habitID := newTestService(t)
	ctx := context.Background()

	longNotes := strings.Repeat("a", 301)
	tooLong := 1441
	negative := -1

	tests := []struct {
		name      string
		input     *models.HabitLogCreateRequest
		wantField string
	}{
		{
			name:      "missing habit",
			input:     &models.HabitLogCreateRequest{},
			wantField: "habitId",
		},
		{
			name:      "notes too long",
			input:     &models.HabitLogCreateRequest{HabitID: habitID, Notes: longNotes},
			wantField: "notes",
		},
		{
			name:      "unknown mood",
			input:     &models.HabitLogCreateRequest{HabitID: habitID, Mood: "ecstatic"},
			wantField: "mood",
		},
		{
			name:      "duration too long",
			input:     &models.HabitLogCreateRequest{HabitID: habitID, Duration: &tooLong},
			wantField: "duration",
		},
		{
			name:      "negative duration",
			input:     &models.HabitLogCreateRequest{HabitID: habitID, Duration: &negative},
			wantField: "duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var validationErr *habitlog.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range validationErr.Errors {
				if fe.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got errors: %v", tt.wantField, validationErr.Errors)
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	service, habitID := newTestService(t)
	ctx := context.Background()

	duration := 25
	created, err := service.Create(ctx, &models.HabitLogCreateRequest{
		HabitID:  habitID,
		Mood:     models.MoodBon,
		Duration: &duration,
	})
	if err != nil {
		t.Fatalf("failed to create log: %v", err)
	}

	completed := false
	notes := "cut short"
	updated, err := service.Update(ctx, created.ID, &models.HabitLogUpdateRequest{
		Completed: &completed,
		Notes:     &notes,
	})
	if err != nil {
		t.Fatalf("failed to update log: %v", err)
	}

	if updated.Completed {
		t.Error("expected completed to be false after update")
	}
	if updated.Notes != "cut short" {
		t.Errorf("expected updated notes, got %q", updated.Notes)
	}
	// Untouched fields survive
	if updated.Mood != models.MoodBon {
		t.Errorf("expected mood unchanged, got %q", updated.Mood)
	}
}

func TestService_Update_DateMovesDayKey(t *testing.T) {
	service, habitID := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, &models.HabitLogCreateRequest{HabitID: habitID})
	if err != nil {
		t.Fatalf("failed to create log: %v", err)
	}

	newDate := time.Now().AddDate(0, 0, -3)
	ts := models.Timestamp(newDate)
	updated, err := service.Update(ctx, created.ID, &models.HabitLogUpdateRequest{Date: &ts})
	if err != nil {
		t.Fatalf("failed to update log date: %v", err)
	}

	wantKey := newDate.UTC().Format("2006-01-02")
	if updated.DateString != wantKey {
		t.Errorf("expected date string %q, got %q", wantKey, updated.DateString)
	}
}

func TestService_Update_DateCollision(t *testing.T) {
	service, habitID := newTestService(t)
	ctx := context.Background()

	yesterday := models.Timestamp(time.Now().AddDate(0, 0, -1))

	if _, err := service.Create(ctx, &models.HabitLogCreateRequest{HabitID: habitID}); err != nil {
		t.Fatalf("failed to create log: %v", err)
	}
	second, err := service.Create(ctx, &models.HabitLogCreateRequest{HabitID: habitID, Date: &yesterday})
	if err != nil {
		t.Fatalf("failed to create log: %v", err)
	}

	// Moving yesterday's log onto today collides with the existing log
	today := models.Timestamp(time.Now())
	_, err = service.Update(ctx, second.ID, &models.HabitLogUpdateRequest{Date: &today})
	if !errors.Is(err, habitlog.ErrDuplicateLog) {
		t.Fatalf("expected ErrDuplicateLog, got %v", err)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Get(context.Background(), "log_missing")
	if !errors.Is(err, habitlog.ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	service, habitID := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, &models.HabitLogCreateRequest{HabitID: habitID})
	if err != nil {
		t.Fatalf("failed to create log: %v", err)
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("failed to delete log: %v", err)
	}

	_, err = service.Get(ctx, created.ID)
	if !errors.Is(err, habitlog.ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound after delete, got %v", err)
	}
}

func TestService_List_Filters(t *testing.T) {
	service, habitID := newTestService(t)
	ctx := context.Background()

	completedTrue := true
	completedFalse := false
	dates := []models.Timestamp{
		models.Timestamp(time.Now()),
		models.Timestamp(time.Now().AddDate(0, 0, -1)),
		models.Timestamp(time.Now().AddDate(0, 0, -2)),
	}
	flags := []*bool{&completedTrue, &completedFalse, &completedTrue}

	for i := range dates {
		if _, err := service.Create(ctx, &models.HabitLogCreateRequest{
			HabitID:   habitID,
			Date:      &dates[i],
			Completed: flags[i],
		}); err != nil {
			t.Fatalf("failed to create log %d: %v", i, err)
		}
	}

	result, err := service.List(ctx, habitlog.Filter{HabitID: habitID, Completed: &completedTrue}, 1, 10, "", "")
	if err != nil {
		t.Fatalf("failed to list logs: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 completed logs, got %d", len(result.Items))
	}

	// Default order is newest first
	if result.Items[0].DateString < result.Items[1].DateString {
		t.Errorf("expected descending date order, got %q before %q",
			result.Items[0].DateString, result.Items[1].DateString)
	}
}
