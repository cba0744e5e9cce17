package analysis

import (
	"context"

	"github.com/vbonduro/plantsage/internal/domain"
)

// Kind selects which prompt, schema, and result type an analysis uses.
type Kind string

const (
	KindDisease  Kind = "disease"
	KindSoil     Kind = "soil"
	KindSeed     Kind = "seed"
	KindNutrient Kind = "nutrient"
	KindWeather  Kind = "weather"
)

// ParseKind returns the Kind for s, or false if s names no known kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindDisease, KindSoil, KindSeed, KindNutrient, KindWeather:
		return Kind(s), true
	}
	return "", false
}

// GenerateRequest is one outbound model call: a system instruction, a text
// prompt, and at most one inline image. A non-nil Schema asks the provider
// for strict JSON of that shape. UseSearch enables web-search grounding;
// providers that ground a call return citation sources with the reply.
type GenerateRequest struct {
	System    string
	Prompt    string
	Image     []byte
	MIMEType  string
	Schema    *Schema
	UseSearch bool
}

// GenerateResponse is the raw model reply before parsing.
type GenerateResponse struct {
	Text    string
	Sources []domain.Source
}

// ChatRequest carries a persona instruction, the full prior transcript, and
// one new user message. Providers build a fresh session per call; continuity
// comes entirely from the resent history.
type ChatRequest struct {
	System  string
	History []domain.ChatMessage
	Message string
}

// Generator is implemented by provider adapters (gemini, claude). Each call
// is independent and at-most-once: no retry, no caching, no deduplication.
// Cancellation and deadlines come from ctx alone.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Converse(ctx context.Context, req ChatRequest) (string, error)
}
