package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
)

// OpenAIClient talks to an OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	log         *logging.Logger
}

// NewOpenAIClient creates a client from the completion config. It fails
// with a domain.ConfigError when the API key or model is missing, before
// any network access.
func NewOpenAIClient(cfg config.CompletionConfig, log *logging.Logger) (*OpenAIClient, error) {
	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "OPENROUTER_API_KEY")
	}
	if cfg.Model == "" {
		missing = append(missing, "OPENROUTER_MODEL")
	}
	if len(missing) > 0 {
		return nil, domain.MissingConfig(missing...)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultCompletionBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = config.DefaultTemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = config.DefaultMaxTokens
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)

	return &OpenAIClient{
		client:      client,
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     cfg.CompletionTimeout(),
		log:         log.Sub("llm.openai"),
	}, nil
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return "openrouter"
}

// Complete sends one chat completion request. Every call is attempted once.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := c.buildParams(req)

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, toUpstreamError(err)
	}

	if len(completion.Choices) == 0 {
		return nil, &domain.UpstreamError{Service: "completion", Body: "no choices returned"}
	}

	choice := completion.Choices[0]
	resp := &CompletionResponse{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
		Model:      completion.Model,
		Usage: Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
		Duration: time.Since(start),
	}

	c.log.Debug().
		Str("model", resp.Model).
		Int("inputTokens", resp.Usage.InputTokens).
		Int("outputTokens", resp.Usage.OutputTokens).
		Dur("duration", resp.Duration).
		Msg("completion finished")

	return resp, nil
}

func (c *OpenAIClient) buildParams(req CompletionRequest) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = c.model
	}
	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := c.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	return openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}
}

// toUpstreamError converts SDK errors into the domain taxonomy, keeping the
// upstream body so callers can surface it.
func toUpstreamError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		body := apiErr.RawJSON()
		if body == "" {
			body = apiErr.Message
		}
		return &domain.UpstreamError{Service: "completion", Status: apiErr.StatusCode, Body: body, Err: err}
	}
	return &domain.UpstreamError{Service: "completion", Err: err}
}
