package habit_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/habit"
	"github.com/habitloop/habitloop/internal/habitlog"
	"github.com/habitloop/habitloop/internal/user"
)

// newTestService wires a habit service over in-memory repositories and
// returns it with a ready-made owner ID.
func newTestService(t *testing.T) (*habit.Service, *habitlog.InMemoryRepository, string) {
	t.Helper()

	userRepo := user.NewInMemoryRepository()
	logRepo := habitlog.NewInMemoryRepository()
	service := habit.NewService(habit.NewInMemoryRepository(), userRepo, logRepo)

	owner := &user.User{
		ID:          "usr_owner1",
		Username:    "alice",
		Email:       "alice@example.com",
		Preferences: user.DefaultPreferences(),
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := userRepo.Create(context.Background(), owner); err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}

	return service, logRepo, owner.ID
}

func TestService_Create(t *testing.T) {
	service, _, ownerID := newTestService(t)
	ctx := context.Background()

	result, err := service.Create(ctx, &models.HabitCreateRequest{
		UserID:   ownerID,
		Title:    "Morning run",
		Category: models.CategoryFitness,
	})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	if !strings.HasPrefix(result.ID, "hab_") {
		t.Errorf("expected habit ID to start with 'hab_', got %q", result.ID)
	}
	if result.Frequency != models.FrequencyDaily {
		t.Errorf("expected default frequency daily, got %q", result.Frequency)
	}
	if len(result.TargetDays) != 7 {
		t.Errorf("expected default target days to cover the week, got %v", result.TargetDays)
	}
	if result.Icon != habit.DefaultIcon {
		t.Errorf("expected default icon, got %q", result.Icon)
	}
	if result.Color != habit.DefaultColor {
		t.Errorf("expected default color, got %q", result.Color)
	}
	if !result.IsActive {
		t.Error("expected new habit to be active")
	}
}

func TestService_Create_DefaultCategory(t *testing.T) {
	service, _, ownerID := newTestService(t)
	ctx := context.Background()

	result, err := service.Create(ctx, &models.HabitCreateRequest{
		UserID: ownerID,
		Title:  "Morning run",
	})
	if err != nil {
		t.Fatalf("failed to create habit without category: %v", err)
	}

	if result.Category != models.CategoryOther {
		t.Errorf("expected default category %q, got %q", models.CategoryOther, result.Category)
	}
}

func TestService_Create_ValidationErrors(t *testing.T) {
	service, _, ownerID := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     *models.HabitCreateRequest
		wantField string
	}{
		{
			name:      "missing user",
			input:     &models.HabitCreateRequest{Title: "Run", Category: models.CategoryHealth},
			wantField: "userId",
		},
		{
			name:      "empty title",
			input:     &models.HabitCreateRequest{UserID: ownerID, Category: models.CategoryHealth},
			wantField: "title",
		},
		{
			name:      "title too short",
			input:     &models.HabitCreateRequest{UserID: ownerID, Title: "ab", Category: models.CategoryHealth},
			wantField: "title",
		},
		{
			name:      "title too long",
			input:     &models.HabitCreateRequest{UserID: ownerID, Title: strings.Repeat("a", 101), Category: models.CategoryHealth},
			wantField: "title",
		},
		{
			name: "description too long",
			input: &models.HabitCreateRequest{
				UserID:      ownerID,
				Title:       "Run",
				Category:    models.CategoryHealth,
				Description: strings.Repeat("a", 501),
			},
			wantField: "description",
		},
		{
			name:      "unknown category",
			input:     &models.HabitCreateRequest{UserID: ownerID, Title: "Run", Category: "sport"},
			wantField: "category",
		},
		{
			name: "unknown frequency",
			input: &models.HabitCreateRequest{
				UserID:    ownerID,
				Title:     "Run",
				Category:  models.CategoryHealth,
				Frequency: "hourly",
			},
			wantField: "frequency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var validationErr *habit.ValidationError
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

func TestService_Create_UnknownOwner(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Create(context.Background(), &models.HabitCreateRequest{
		UserID:   "usr_missing",
		Title:    "Run",
		Category: models.CategoryHealth,
	})
	if !errors.Is(err, habit.ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Get(context.Background(), "hab_missing")
	if !errors.Is(err, habit.ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestService_Update(t *testing.T) {
	service, _, ownerID := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, &models.HabitCreateRequest{
		UserID:   ownerID,
		Title:    "Morning run",
		Category: models.CategoryFitness,
	})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	title := "Evening run"
	freq := models.FrequencyWeekly
	updated, err := service.Update(ctx, created.ID, &models.HabitUpdateRequest{
		Title:     &title,
		Frequency: &freq,
	})
	if err != nil {
		t.Fatalf("failed to update habit: %v", err)
	}

	if updated.Title != "Evening run" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if updated.Frequency != models.FrequencyWeekly {
		t.Errorf("expected weekly frequency, got %q", updated.Frequency)
	}
	// Unspecified fields keep their values
	if updated.Category != models.CategoryFitness {
		t.Errorf("expected category unchanged, got %q", updated.Category)
	}
}

func TestService_Archive(t *testing.T) {
	service, _, ownerID := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, &models.HabitCreateRequest{
		UserID:   ownerID,
		Title:    "Morning run",
		Category: models.CategoryFitness,
	})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	if err := service.Archive(ctx, created.ID); err != nil {
		t.Fatalf("failed to archive habit: %v", err)
	}

	archived, err := service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("archived habit should remain readable: %v", err)
	}
	if archived.IsActive {
		t.Error("expected archived habit to be inactive")
	}
}

func TestService_Delete_CascadesLogs(t *testing.T) {
	service, logRepo, ownerID := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, &models.HabitCreateRequest{
		UserID:   ownerID,
		Title:    "Morning run",
		Category: models.CategoryFitness,
	})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	now := time.Now()
	for i := 0; i < 3; i++ {
		date := now.AddDate(0, 0, -i)
		err := logRepo.Create(ctx, &habitlog.Log{
			ID:         "log_" + string(rune('a'+i)),
			HabitID:    created.ID,
			UserID:     ownerID,
			Date:       date,
			DateString: habitlog.DateKey(date),
			Completed:  true,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			t.Fatalf("failed to seed log: %v", err)
		}
	}

	removed, err := service.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed logs, got %d", removed)
	}

	_, err = service.Get(ctx, created.ID)
	if !errors.Is(err, habit.ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound after delete, got %v", err)
	}
}

func TestService_List_Filters(t *testing.T) {
	service, _, ownerID := newTestService(t)
	ctx := context.Background()

	habits := []struct {
		title    string
		category models.Category
	}{
		{"Morning run", models.CategoryFitness},
		{"Read a book", models.CategoryLearning},
		{"Drink water", models.CategoryHealth},
	}
	for _, h := range habits {
		if _, err := service.Create(ctx, &models.HabitCreateRequest{
			UserID:   ownerID,
			Title:    h.title,
			Category: h.category,
		}); err != nil {
			t.Fatalf("failed to create habit %q: %v", h.title, err)
		}
	}

	result, err := service.List(ctx, habit.Filter{Category: "fitness"}, 1, 10, "", "")
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 fitness habit, got %d", len(result.Items))
	}
	if result.Items[0].Title != "Morning run" {
		t.Errorf("expected Morning run, got %q", result.Items[0].Title)
	}

	result, err = service.List(ctx, habit.Filter{Search: "book"}, 1, 10, "", "")
	if err != nil {
		t.Fatalf("failed to search habits: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Title != "Read a book" {
		t.Errorf("expected search to match Read a book, got %v", result.Items)
	}
}
