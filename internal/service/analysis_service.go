package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/plantsage/internal/analysis"
	"github.com/vbonduro/plantsage/internal/domain"
	"github.com/vbonduro/plantsage/internal/imagestore"
)

// historyRepository is the subset of store.AnalysisStore that
// AnalysisService requires.
type historyRepository interface {
	Append(ctx context.Context, a *domain.Analysis) error
	GetByID(ctx context.Context, id string) (*domain.Analysis, error)
	List(ctx context.Context, limit int) ([]*domain.Analysis, error)
	Delete(ctx context.Context, id string) error
}

// AnalysisService orchestrates one analysis round trip: validate input, call
// the model, parse, then record the image and result in history. A failed
// analysis never produces a history entry.
type AnalysisService struct {
	ai      analysis.Generator
	history historyRepository
	images  imagestore.ImageStore
	logger  *slog.Logger
}

func NewAnalysisService(ai analysis.Generator, history historyRepository, images imagestore.ImageStore, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		ai:      ai,
		history: history,
		images:  images,
		logger:  logger,
	}
}

// AnalyzeImage runs one of the four photo-based analyses and returns the
// recorded history entry, whose Result holds the kind's typed report.
func (s *AnalysisService) AnalyzeImage(ctx context.Context, kind analysis.Kind, image []byte, mimeType string) (*domain.Analysis, error) {
	s.logger.Info("image analysis started", "kind", kind, "mime_type", mimeType, "bytes", len(image))

	var report any
	var err error
	switch kind {
	case analysis.KindDisease:
		report, err = analysis.AnalyzeDisease(ctx, s.ai, image, mimeType)
	case analysis.KindSoil:
		report, err = analysis.AnalyzeSoil(ctx, s.ai, image, mimeType)
	case analysis.KindSeed:
		report, err = analysis.IdentifySeed(ctx, s.ai, image, mimeType)
	case analysis.KindNutrient:
		report, err = analysis.AnalyzeNutrients(ctx, s.ai, image, mimeType)
	default:
		return nil, &analysis.InputError{Msg: fmt.Sprintf("unknown analysis kind %q", kind)}
	}
	if err != nil {
		s.logFailure(kind, err)
		return nil, err
	}

	imageKey, err := s.images.Save(ctx, string(kind), mimeType, image)
	if err != nil {
		// The analysis itself succeeded; losing the image thumbnail is not
		// worth failing the call over.
		s.logger.Error("failed to save analysis image", "kind", kind, "error", err)
		imageKey = ""
	}

	entry, err := s.record(ctx, kind, imageKey, "", report)
	if err != nil {
		return nil, err
	}

	s.logger.Info("image analysis complete", "kind", kind, "id", entry.ID)
	return entry, nil
}

// AnalyzeWeather runs the location-based weather-risk analysis.
func (s *AnalysisService) AnalyzeWeather(ctx context.Context, location string) (*domain.Analysis, error) {
	s.logger.Info("weather analysis started", "location", location)

	report, err := analysis.ForecastWeather(ctx, s.ai, location)
	if err != nil {
		s.logFailure(analysis.KindWeather, err)
		return nil, err
	}

	entry, err := s.record(ctx, analysis.KindWeather, "", location, report)
	if err != nil {
		return nil, err
	}

	s.logger.Info("weather analysis complete", "location", location, "id", entry.ID)
	return entry, nil
}

// Chat forwards one persona chat turn. Transcripts are caller-owned and
// never written to history.
func (s *AnalysisService) Chat(ctx context.Context, persona analysis.Persona, history []domain.ChatMessage, message string) (string, error) {
	reply, err := analysis.ChatWithExpert(ctx, s.ai, persona, history, message)
	if err != nil {
		s.logger.Warn("chat turn failed", "persona", persona, "error", err)
		return "", err
	}
	return reply, nil
}

// Translate renders text into the target language.
func (s *AnalysisService) Translate(ctx context.Context, text, language string) (string, error) {
	translated, err := analysis.Translate(ctx, s.ai, text, language)
	if err != nil {
		s.logger.Warn("translation failed", "language", language, "error", err)
		return "", err
	}
	return translated, nil
}

func (s *AnalysisService) History(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	return s.history.List(ctx, limit)
}

func (s *AnalysisService) GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error) {
	return s.history.GetByID(ctx, id)
}

// DeleteAnalysis removes a history entry and its stored image, if any.
func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id string) error {
	entry, err := s.history.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("analysis not found")
	}

	if err := s.history.Delete(ctx, id); err != nil {
		return err
	}

	if entry.ImageKey != "" {
		if err := s.images.Delete(ctx, entry.ImageKey); err != nil {
			s.logger.Error("failed to delete analysis image", "image_key", entry.ImageKey, "error", err)
		}
	}
	return nil
}

func (s *AnalysisService) record(ctx context.Context, kind analysis.Kind, imageKey, location string, report any) (*domain.Analysis, error) {
	result, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s report: %w", kind, err)
	}

	entry := &domain.Analysis{
		ID:        uuid.NewString(),
		Kind:      string(kind),
		ImageKey:  imageKey,
		Location:  location,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.history.Append(ctx, entry); err != nil {
		// History is a convenience; the caller still gets their result.
		s.logger.Error("failed to append history", "kind", kind, "error", err)
	}
	return entry, nil
}

// logFailure keeps the raw unparseable reply in the server log only; callers
// see a generic failure, never the model text.
func (s *AnalysisService) logFailure(kind analysis.Kind, err error) {
	var parseErr *analysis.ParseError
	if errors.As(err, &parseErr) {
		s.logger.Error("analysis reply did not parse", "kind", kind, "error", parseErr.Err, "raw", parseErr.Raw)
		return
	}
	s.logger.Warn("analysis failed", "kind", kind, "error", err)
}
