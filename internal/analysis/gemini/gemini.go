package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/vbonduro/plantsage/internal/analysis"
	"github.com/vbonduro/plantsage/internal/domain"
)

const defaultModel = "gemini-2.5-flash"

var errEmptyReply = errors.New("empty reply from model")

// Client is the Gemini provider adapter. The API key is read once at startup
// and injected here; nothing in this package touches global state.
type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

func (c *Client) Generate(ctx context.Context, req analysis.GenerateRequest) (*analysis.GenerateResponse, error) {
	parts := make([]*genai.Part, 0, 2)
	if len(req.Image) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Image},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.2)),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	// Search grounding and structured-output mode are mutually exclusive on
	// the Gemini API: a grounded call relies on the prompt's embedded JSON
	// shape instead.
	switch {
	case req.UseSearch:
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	case req.Schema != nil:
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toResponseSchema(req.Schema)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	if err != nil {
		return nil, &analysis.RequestError{Provider: "gemini", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return nil, &analysis.RequestError{Provider: "gemini", Err: errEmptyReply}
	}
	return &analysis.GenerateResponse{
		Text:    text,
		Sources: extractSources(resp),
	}, nil
}

// Converse rebuilds a chat session from the full caller-held history and
// sends one message. No server-side session is reused across turns.
func (c *Client) Converse(ctx context.Context, req analysis.ChatRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	chat, err := c.client.Chats.Create(ctx, c.model, cfg, toHistory(req.History))
	if err != nil {
		return "", &analysis.RequestError{Provider: "gemini", Err: err}
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Message})
	if err != nil {
		return "", &analysis.RequestError{Provider: "gemini", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &analysis.RequestError{Provider: "gemini", Err: errEmptyReply}
	}
	return text, nil
}

func toHistory(history []domain.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return contents
}

// extractSources pulls citation links out of search-grounding metadata.
// Entries without a web link are kept as-is here; filtering happens in the
// analysis layer where the policy lives.
func extractSources(resp *genai.GenerateContentResponse) []domain.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var sources []domain.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, domain.Source{
			Title: chunk.Web.Title,
			URL:   chunk.Web.URI,
		})
	}
	return sources
}

// toResponseSchema converts the in-code reply schema to the Gemini
// structured-output schema so the shape is enforced provider-side too.
func toResponseSchema(s *analysis.Schema) *genai.Schema {
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: toProperties(s.Fields),
		Required:   requiredNames(s.Fields),
	}
}

func toProperties(fields []analysis.Field) map[string]*genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	for _, f := range fields {
		props[f.Name] = toFieldSchema(f)
	}
	return props
}

func requiredNames(fields []analysis.Field) []string {
	var names []string
	for _, f := range fields {
		if !f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

func toFieldSchema(f analysis.Field) *genai.Schema {
	switch f.Type {
	case analysis.TypeString:
		return &genai.Schema{Type: genai.TypeString, Enum: f.Enum}
	case analysis.TypeInteger:
		return &genai.Schema{Type: genai.TypeInteger}
	case analysis.TypeNumber:
		return &genai.Schema{Type: genai.TypeNumber}
	case analysis.TypeArray:
		out := &genai.Schema{Type: genai.TypeArray}
		if f.Elem != nil {
			out.Items = toFieldSchema(*f.Elem)
		}
		return out
	case analysis.TypeObject:
		return &genai.Schema{
			Type:       genai.TypeObject,
			Properties: toProperties(f.Fields),
			Required:   requiredNames(f.Fields),
		}
	}
	return &genai.Schema{Type: genai.TypeString}
}
