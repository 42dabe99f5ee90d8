package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rmaragno/sigilo/internal/model"
	"github.com/sashabaranov/go-openai"
)

// OpenAIValidator implements the Validator contract over the OpenAI
// Chat Completions API
type OpenAIValidator struct {
	client *openai.Client
	config model.ValidatorConfig
}

// NewOpenAIValidator creates an OpenAI-backed validator
func NewOpenAIValidator(cfg model.ValidatorConfig) (*OpenAIValidator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIValidator{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Name returns the provider name
func (v *OpenAIValidator) Name() string {
	return "openai"
}

// Validate sends one validation request and parses the structured verdict.
// The call is single-shot: any transport or schema failure surfaces as an
// error and the caller degrades to lexical-only matching.
func (v *OpenAIValidator) Validate(ctx context.Context, req Request) (*Response, error) {
	mdl := v.config.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	timeout := time.Duration(v.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Você é um especialista em análise de ofícios judiciais de quebra de sigilo bancário. Responda apenas com JSON válido.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		MaxTokens:   v.config.MaxTokens,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := v.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty response")
	}

	return ParseResponse(resp.Choices[0].Message.Content)
}

// ParseResponse decodes and schema-checks a raw validator reply. Markdown
// code fences around the JSON are tolerated; everything else is strict.
func ParseResponse(raw string) (*Response, error) {
	raw = stripFences(raw)

	var out Response
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode validator response: %w", err)
	}
	if err := CheckResponse(&out); err != nil {
		return nil, fmt.Errorf("malformed validator response: %w", err)
	}
	return &out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
