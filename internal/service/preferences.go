package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mintreplica/mintlite/internal/apperr"
	"github.com/mintreplica/mintlite/internal/model"
	"github.com/mintreplica/mintlite/internal/repository"
	"github.com/mintreplica/mintlite/internal/validation"
)

type UpdatePreferencesInput struct {
	Email             string
	ProgressEnabled   bool
	CompletionEnabled bool
	DeadlineEnabled   bool
	BudgetEnabled     bool
	EmailEnabled      bool
	EmailMinPriority  string
}

type PreferencesService struct {
	store *repository.Store
}

func NewPreferencesService(store *repository.Store) *PreferencesService {
	return &PreferencesService{store: store}
}

func (s *PreferencesService) Preferences(ctx context.Context, userID string) (*model.NotificationPreferences, error) {
	return s.store.Preferences.ByUserID(ctx, userID)
}

func (s *PreferencesService) Update(ctx context.Context, userID string, in UpdatePreferencesInput) (*model.NotificationPreferences, error) {
	email := strings.TrimSpace(in.Email)
	if email != "" {
		err := validation.ValidateEmail(email)
		if err != nil {
			return nil, err
		}
	}
	if in.EmailEnabled && email == "" {
		return nil, fmt.Errorf("an email address is required to enable email notifications: %w", apperr.ErrInvalidArgument)
	}

	minPriority := strings.ToUpper(in.EmailMinPriority)
	if minPriority == "" {
		minPriority = model.PriorityHigh
	}
	if !model.IsPriority(minPriority) {
		return nil, fmt.Errorf("unknown priority %q: %w", in.EmailMinPriority, apperr.ErrInvalidArgument)
	}

	prefs := &model.NotificationPreferences{
		UserID:            userID,
		Email:             email,
		ProgressEnabled:   in.ProgressEnabled,
		CompletionEnabled: in.CompletionEnabled,
		DeadlineEnabled:   in.DeadlineEnabled,
		BudgetEnabled:     in.BudgetEnabled,
		EmailEnabled:      in.EmailEnabled,
		EmailMinPriority:  minPriority,
		UpdatedAt:         time.Now().UTC(),
	}

	err := s.store.Preferences.Upsert(ctx, prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	return prefs, nil
}
