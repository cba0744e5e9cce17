package claude

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/plantsage/internal/analysis"
	"github.com/vbonduro/plantsage/internal/domain"
)

const defaultModel = "claude-sonnet-4-20250514"

// maxTokens comfortably covers the largest documented reply shape (a full
// disease report with links) with headroom for verbose models.
const maxTokens = 2048

var errEmptyReply = errors.New("empty reply from model")

// Client is the Anthropic provider adapter. Claude has no web-search
// grounding here, so weather analyses through this backend carry no citation
// sources.
type Client struct {
	client *anthropic.Client
	model  anthropic.Model
}

func New(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		client: anthropic.NewClient(apiKey),
		model:  anthropic.Model(model),
	}
}

func (c *Client) Generate(ctx context.Context, req analysis.GenerateRequest) (*analysis.GenerateResponse, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     c.model,
		System:    req.System,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{{
			Role:    anthropic.RoleUser,
			Content: buildContent(req),
		}},
	})
	if err != nil {
		return nil, &analysis.RequestError{Provider: "claude", Err: err}
	}

	text := responseText(resp)
	if text == "" {
		return nil, &analysis.RequestError{Provider: "claude", Err: errEmptyReply}
	}
	return &analysis.GenerateResponse{Text: text}, nil
}

func (c *Client) Converse(ctx context.Context, req analysis.ChatRequest) (string, error) {
	messages := toMessages(req.History)
	messages = append(messages, anthropic.NewUserTextMessage(req.Message))

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     c.model,
		System:    req.System,
		MaxTokens: maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", &analysis.RequestError{Provider: "claude", Err: err}
	}

	text := responseText(resp)
	if text == "" {
		return "", &analysis.RequestError{Provider: "claude", Err: errEmptyReply}
	}
	return text, nil
}

// buildContent assembles the user content blocks: the image first when one
// was attached, then the prompt text.
func buildContent(req analysis.GenerateRequest) []anthropic.MessageContent {
	content := make([]anthropic.MessageContent, 0, 2)
	if len(req.Image) > 0 {
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				normaliseMIME(req.MIMEType),
				base64.StdEncoding.EncodeToString(req.Image),
			)))
	}
	content = append(content, anthropic.NewTextMessageContent(req.Prompt))
	return content
}

func toMessages(history []domain.ChatMessage) []anthropic.Message {
	messages := make([]anthropic.Message, 0, len(history)+1)
	for _, m := range history {
		if m.Role == domain.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantTextMessage(m.Text))
			continue
		}
		messages = append(messages, anthropic.NewUserTextMessage(m.Text))
	}
	return messages
}

func responseText(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if text := block.GetText(); text != "" {
			return text
		}
	}
	return ""
}

// normaliseMIME coerces unknown MIME types to jpeg; the Anthropic API accepts
// only jpeg, png, gif, and webp. Callers validate MIME types before this
// layer.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
