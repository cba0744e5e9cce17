package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/plantsage/internal/analysis"
	"github.com/vbonduro/plantsage/internal/domain"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0}

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(context.Context, analysis.GenerateRequest) (*analysis.GenerateResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &analysis.GenerateResponse{Text: f.text}, nil
}

func (f *fakeGenerator) Converse(context.Context, analysis.ChatRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeHistory struct {
	entries []*domain.Analysis
}

func (f *fakeHistory) Append(_ context.Context, a *domain.Analysis) error {
	f.entries = append(f.entries, a)
	return nil
}

func (f *fakeHistory) GetByID(_ context.Context, id string) (*domain.Analysis, error) {
	for _, a := range f.entries {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeHistory) List(_ context.Context, limit int) ([]*domain.Analysis, error) {
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeHistory) Delete(_ context.Context, id string) error {
	for i, a := range f.entries {
		if a.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return errors.New("analysis not found")
}

type fakeImages struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newFakeImages() *fakeImages {
	return &fakeImages{saved: make(map[string][]byte)}
}

func (f *fakeImages) Save(_ context.Context, prefix, _ string, data []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	key := prefix + "_1.jpg"
	f.saved[key] = data
	return key, nil
}

func (f *fakeImages) Get(context.Context, string) (io.ReadCloser, string, error) {
	return nil, "", errors.New("image not found")
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.saved, key)
	return nil
}

func newTestService(gen analysis.Generator) (*AnalysisService, *fakeHistory, *fakeImages) {
	history := &fakeHistory{}
	images := newFakeImages()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAnalysisService(gen, history, images, logger), history, images
}

func TestAnalyzeImageRecordsHistory(t *testing.T) {
	gen := &fakeGenerator{
		text: `{"healthScore":45,"deficiencies":["Nitrogen"],"symptoms":["yellowing leaves"],"recommendations":["apply nitrogen-rich fertilizer"]}`,
	}
	svc, history, images := newTestService(gen)

	entry, err := svc.AnalyzeImage(context.Background(), analysis.KindNutrient, jpegBytes, "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "nutrient", entry.Kind)
	assert.Equal(t, "nutrient_1.jpg", entry.ImageKey)

	var report domain.NutrientReport
	require.NoError(t, json.Unmarshal(entry.Result, &report))
	assert.Equal(t, 45, report.HealthScore)
	assert.Equal(t, []string{"Nitrogen"}, report.Deficiencies)

	require.Len(t, history.entries, 1)
	assert.Equal(t, entry.ID, history.entries[0].ID)
	assert.Equal(t, jpegBytes, images.saved["nutrient_1.jpg"])
}

func TestAnalyzeImageParseFailureLeavesNoHistory(t *testing.T) {
	gen := &fakeGenerator{text: "not json at all"}
	svc, history, images := newTestService(gen)

	_, err := svc.AnalyzeImage(context.Background(), analysis.KindDisease, jpegBytes, "image/jpeg")
	var parseErr *analysis.ParseError
	require.True(t, errors.As(err, &parseErr))

	assert.Empty(t, history.entries)
	assert.Empty(t, images.saved)
}

func TestAnalyzeImageRequestFailureLeavesNoHistory(t *testing.T) {
	gen := &fakeGenerator{err: &analysis.RequestError{Provider: "fake", Err: io.ErrUnexpectedEOF}}
	svc, history, _ := newTestService(gen)

	_, err := svc.AnalyzeImage(context.Background(), analysis.KindSoil, jpegBytes, "image/jpeg")
	var requestErr *analysis.RequestError
	require.True(t, errors.As(err, &requestErr))
	assert.Empty(t, history.entries)
}

func TestAnalyzeImageSurvivesImageSaveFailure(t *testing.T) {
	gen := &fakeGenerator{
		text: `{"healthScore":80,"deficiencies":["None"],"symptoms":["None"],"recommendations":["None"]}`,
	}
	svc, history, images := newTestService(gen)
	images.saveErr = errors.New("disk full")

	entry, err := svc.AnalyzeImage(context.Background(), analysis.KindNutrient, jpegBytes, "image/jpeg")
	require.NoError(t, err)
	assert.Empty(t, entry.ImageKey)
	assert.Len(t, history.entries, 1)
}

func TestAnalyzeImageUnknownKind(t *testing.T) {
	svc, _, _ := newTestService(&fakeGenerator{text: "{}"})

	_, err := svc.AnalyzeImage(context.Background(), analysis.Kind("horoscope"), jpegBytes, "image/jpeg")
	var inputErr *analysis.InputError
	assert.True(t, errors.As(err, &inputErr))
}

func TestAnalyzeWeatherRecordsLocation(t *testing.T) {
	gen := &fakeGenerator{text: `{
		"locationName": "Dhaka",
		"current": {"temp": "31°C", "condition": "Cloudy", "humidity": "78%", "wind": "12 km/h"},
		"forecast": [{"day": "Tomorrow", "temp": "29°C", "condition": "Showers"}],
		"risks": {"floodProbability": "Low", "cycloneProbability": "None", "details": ""},
		"farmingTip": "Wait for the rain"
	}`}
	svc, history, _ := newTestService(gen)

	entry, err := svc.AnalyzeWeather(context.Background(), "Dhaka")
	require.NoError(t, err)
	assert.Equal(t, "weather", entry.Kind)
	assert.Equal(t, "Dhaka", entry.Location)
	assert.Empty(t, entry.ImageKey)
	assert.Len(t, history.entries, 1)
}

func TestChatPassthrough(t *testing.T) {
	svc, _, _ := newTestService(&fakeGenerator{text: "Water it twice a week."})

	reply, err := svc.Chat(context.Background(), analysis.PersonaGarden, nil, "How often do I water basil?")
	require.NoError(t, err)
	assert.Equal(t, "Water it twice a week.", reply)
}

func TestTranslatePassthrough(t *testing.T) {
	svc, _, _ := newTestService(&fakeGenerator{text: "hola"})

	out, err := svc.Translate(context.Background(), "hello", "Spanish")
	require.NoError(t, err)
	assert.Equal(t, "hola", out)
}

func TestDeleteAnalysisRemovesImage(t *testing.T) {
	gen := &fakeGenerator{
		text: `{"healthScore":45,"deficiencies":["Nitrogen"],"symptoms":["x"],"recommendations":["y"]}`,
	}
	svc, history, images := newTestService(gen)

	entry, err := svc.AnalyzeImage(context.Background(), analysis.KindNutrient, jpegBytes, "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAnalysis(context.Background(), entry.ID))
	assert.Empty(t, history.entries)
	assert.Equal(t, []string{"nutrient_1.jpg"}, images.deleted)

	assert.Error(t, svc.DeleteAnalysis(context.Background(), entry.ID))
}
