package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintreplica/mintlite/internal/model"
	"github.com/mintreplica/mintlite/internal/repository"
	"github.com/mintreplica/mintlite/internal/storage"
)

var ErrExportDisabled = errors.New("export storage is not configured")

type goalExport struct {
	UserID     string          `json:"userId"`
	ExportedAt time.Time       `json:"exportedAt"`
	Goals      []*model.Goal   `json:"goals"`
	Budgets    []*model.Budget `json:"budgets"`
}

type ExportResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type ExportService struct {
	store   *repository.Store
	storage storage.Storage
	now     func() time.Time
}

// NewExportService accepts a nil storage; Export then fails with ErrExportDisabled.
func NewExportService(store *repository.Store, storage storage.Storage) *ExportService {
	return &ExportService{
		store:   store,
		storage: storage,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Export writes the user's goals and budgets as one JSON document and returns a
// temporary download link.
func (s *ExportService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	if s.storage == nil {
		return nil, ErrExportDisabled
	}

	goals, err := s.store.Goals.Goals(ctx, userID, repository.GoalSortDeadline)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	budgets, err := s.store.Budgets.Budgets(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	now := s.now()
	doc := goalExport{
		UserID:     userID,
		ExportedAt: now,
		Goals:      goals,
		Budgets:    budgets,
	}
	if doc.Goals == nil {
		doc.Goals = []*model.Goal{}
	}
	if doc.Budgets == nil {
		doc.Budgets = []*model.Budget{}
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	path := fmt.Sprintf("exports/%s/%s.json", userID, now.Format("20060102T150405Z"))
	err = s.storage.Save(ctx, path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PresignedURL(ctx, path)
	if err != nil {
		return nil, err
	}

	slog.Info("export written", "userID", userID, "path", path, "goals", len(goals), "budgets", len(budgets))
	return &ExportResult{Path: path, URL: url}, nil
}
