package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/plantsage/internal/domain"
)

// AnalysisStore persists completed analyses. Only successful analyses are
// appended; a failed call leaves no history row.
type AnalysisStore struct {
	db *sql.DB
}

func NewAnalysisStore(db *sql.DB) *AnalysisStore {
	return &AnalysisStore{db: db}
}

func (s *AnalysisStore) Append(ctx context.Context, a *domain.Analysis) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, kind, image_key, location, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Kind, a.ImageKey, a.Location, string(a.Result), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append analysis: %w", err)
	}
	return nil
}

func (s *AnalysisStore) GetByID(ctx context.Context, id string) (*domain.Analysis, error) {
	a := &domain.Analysis{}
	var result string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, image_key, location, result, created_at FROM analyses WHERE id = ?
	`, id).Scan(&a.ID, &a.Kind, &a.ImageKey, &a.Location, &result, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	a.Result = []byte(result)
	return a, nil
}

// List returns the most recent analyses, newest first.
func (s *AnalysisStore) List(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, image_key, location, result, created_at FROM analyses
		ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var analyses []*domain.Analysis
	for rows.Next() {
		a := &domain.Analysis{}
		var result string
		if err := rows.Scan(&a.ID, &a.Kind, &a.ImageKey, &a.Location, &result, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		a.Result = []byte(result)
		analyses = append(analyses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return analyses, nil
}

func (s *AnalysisStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM analyses WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("analysis not found")
	}

	return nil
}
