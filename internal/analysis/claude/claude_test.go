package claude

import (
	"encoding/base64"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/plantsage/internal/analysis"
	"github.com/vbonduro/plantsage/internal/domain"
)

func TestBuildContentWithImage(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF}
	content := buildContent(analysis.GenerateRequest{
		Prompt:   "Diagnose this plant.",
		Image:    image,
		MIMEType: "image/jpeg",
	})

	require.Len(t, content, 2)

	// Image block first, with base64 payload.
	require.NotNil(t, content[0].Source)
	assert.Equal(t, "image/jpeg", content[0].Source.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(image), content[0].Source.Data)

	assert.Equal(t, "Diagnose this plant.", content[1].GetText())
}

func TestBuildContentTextOnly(t *testing.T) {
	content := buildContent(analysis.GenerateRequest{Prompt: "Translate this."})
	require.Len(t, content, 1)
	assert.Equal(t, "Translate this.", content[0].GetText())
}

func TestToMessagesRoles(t *testing.T) {
	messages := toMessages([]domain.ChatMessage{
		{Role: domain.RoleUser, Text: "My tomato has blight."},
		{Role: domain.RoleAssistant, Text: "Remove the affected leaves."},
	})

	require.Len(t, messages, 2)
	assert.Equal(t, anthropic.RoleUser, messages[0].Role)
	require.NotEmpty(t, messages[0].Content)
	assert.Equal(t, "My tomato has blight.", messages[0].Content[0].GetText())
	assert.Equal(t, anthropic.RoleAssistant, messages[1].Role)
}

func TestResponseText(t *testing.T) {
	resp := anthropic.MessagesResponse{
		Content: []anthropic.MessageContent{
			anthropic.NewTextMessageContent("hello"),
		},
	}
	assert.Equal(t, "hello", responseText(resp))

	assert.Empty(t, responseText(anthropic.MessagesResponse{}))
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", normaliseMIME("image/png"))
	assert.Equal(t, "image/webp", normaliseMIME("image/webp"))
	// Unknown types coerce to jpeg.
	assert.Equal(t, "image/jpeg", normaliseMIME("image/tiff"))
	assert.Equal(t, "image/jpeg", normaliseMIME(""))
}
