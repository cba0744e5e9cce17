package analysis

import (
	"context"
	"net/url"
	"strings"

	"github.com/vbonduro/plantsage/internal/domain"
)

// The five analysis entry points plus chat and translation. Each is one
// stateless round trip: build the prompt, call the provider, parse the reply.
// Input problems surface as *InputError before any network call; provider
// problems as *RequestError; unusable replies as *ParseError.

func AnalyzeDisease(ctx context.Context, g Generator, image []byte, mimeType string) (*domain.DiseaseReport, error) {
	var report domain.DiseaseReport
	if err := analyzeImage(ctx, g, KindDisease, diseasePrompt(), image, mimeType, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func AnalyzeSoil(ctx context.Context, g Generator, image []byte, mimeType string) (*domain.SoilReport, error) {
	var report domain.SoilReport
	if err := analyzeImage(ctx, g, KindSoil, soilPrompt(), image, mimeType, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func IdentifySeed(ctx context.Context, g Generator, image []byte, mimeType string) (*domain.SeedReport, error) {
	var report domain.SeedReport
	if err := analyzeImage(ctx, g, KindSeed, seedPrompt(), image, mimeType, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func AnalyzeNutrients(ctx context.Context, g Generator, image []byte, mimeType string) (*domain.NutrientReport, error) {
	var report domain.NutrientReport
	if err := analyzeImage(ctx, g, KindNutrient, nutrientPrompt(), image, mimeType, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func analyzeImage(ctx context.Context, g Generator, kind Kind, prompt string, image []byte, mimeType string, v any) error {
	if len(image) == 0 {
		return &InputError{Msg: "an image is required for this analysis"}
	}
	if mimeType == "" {
		return &InputError{Msg: "the image MIME type is required"}
	}
	resp, err := g.Generate(ctx, GenerateRequest{
		System:   systemFor(kind),
		Prompt:   prompt,
		Image:    image,
		MIMEType: mimeType,
		Schema:   schemaFor(kind),
	})
	if err != nil {
		return err
	}
	return decodeReport(kind, resp.Text, v)
}

// ForecastWeather reports weather and farming risk for a location. The call
// is search-grounded; citation sources from the grounding metadata are
// attached to the report, filtered to entries with a resolvable link.
func ForecastWeather(ctx context.Context, g Generator, location string) (*domain.WeatherReport, error) {
	if strings.TrimSpace(location) == "" {
		return nil, &InputError{Msg: "a location is required for a weather analysis"}
	}
	resp, err := g.Generate(ctx, GenerateRequest{
		System:    systemFor(KindWeather),
		Prompt:    weatherPrompt(location),
		Schema:    schemaFor(KindWeather),
		UseSearch: true,
	})
	if err != nil {
		return nil, err
	}
	var report domain.WeatherReport
	if err := decodeReport(KindWeather, resp.Text, &report); err != nil {
		return nil, err
	}
	report.GroundingSources = resolveSources(resp.Sources)
	return &report, nil
}

// resolveSources drops citations without a resolvable link and derives a
// display title from the URL host when the provider sent none.
func resolveSources(sources []domain.Source) []domain.Source {
	var out []domain.Source
	for _, src := range sources {
		if strings.TrimSpace(src.URL) == "" {
			continue
		}
		if src.Title == "" {
			if u, err := url.Parse(src.URL); err == nil && u.Host != "" {
				src.Title = u.Host
			} else {
				src.Title = src.URL
			}
		}
		out = append(out, src)
	}
	return out
}

// ChatWithExpert appends one user message to a caller-owned transcript and
// returns the assistant's reply. The provider session is rebuilt from the
// full history on every turn; nothing is persisted here.
func ChatWithExpert(ctx context.Context, g Generator, persona Persona, history []domain.ChatMessage, message string) (string, error) {
	system, ok := personaSystems[persona]
	if !ok {
		return "", &InputError{Msg: "unknown chat persona"}
	}
	if strings.TrimSpace(message) == "" {
		return "", &InputError{Msg: "a message is required"}
	}
	return g.Converse(ctx, ChatRequest{
		System:  system,
		History: history,
		Message: message,
	})
}

// Translate renders text into the target language, preserving formatting.
func Translate(ctx context.Context, g Generator, text, language string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &InputError{Msg: "text to translate is required"}
	}
	if strings.TrimSpace(language) == "" {
		return "", &InputError{Msg: "a target language is required"}
	}
	resp, err := g.Generate(ctx, GenerateRequest{
		System: translateSystem,
		Prompt: translatePrompt(text, language),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
