package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"trialsage/internal/bootstrap/config"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

// OpenAIGenerator calls a chat-completion API with a fixed model,
// temperature and token limit from config.
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

var _ ports.TextGenerator = (*OpenAIGenerator)(nil)

func NewOpenAIGenerator(cfg config.LLMConfig) *OpenAIGenerator {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (g *OpenAIGenerator) GenerateText(ctx context.Context, input ports.GenerateTextInput) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if strings.TrimSpace(input.Prompt) == "" {
		return "", errors.New("prompt is required")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(input.System) != "" {
		messages = append(messages, openai.SystemMessage(input.System))
	}
	messages = append(messages, openai.UserMessage(input.Prompt))

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Messages:    messages,
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(g.maxTokens),
	})
	if err != nil {
		return "", errs.Wrap(err, "chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
