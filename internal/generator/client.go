package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/love-prep/backend/internal/config"
	"go.uber.org/zap"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and drafts medication-safety questions.
type Generator struct {
	llm   LLMClient
	model string
	log   *zap.Logger
}

func New(cfg config.GeneratorConfig, log *zap.Logger) *Generator {
	if cfg.Mode == "mock" {
		log.Info("generator using mock data")
		return &Generator{llm: NewMockClient(), model: "mock", log: log}
	}
	log.Info("generator using Anthropic API", zap.String("model", cfg.Model))
	return &Generator{llm: NewAPIClient(cfg.APIKey, cfg.Model, log), model: cfg.Model, log: log}
}

// NewWithClient is used by tests and alternative backends.
func NewWithClient(llm LLMClient, model string, log *zap.Logger) *Generator {
	return &Generator{llm: llm, model: model, log: log}
}

func (g *Generator) ModelName() string {
	return g.model
}

// Draft asks the model for count questions and returns the batch after
// structural screening. Drafts that fail screening are listed in Rejected.
func (g *Generator) Draft(ctx context.Context, category, difficulty string, count int) (*GeneratedBatch, *LLMResponse, error) {
	resp, err := g.llm.Generate(ctx, SystemPrompt(), BuildUserPrompt(category, difficulty, count))
	if err != nil {
		return nil, nil, fmt.Errorf("generate batch: %w", err)
	}

	batch, err := ParseResponse(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse response: %w", err)
	}

	for _, reason := range batch.Rejected {
		g.log.Warn("draft rejected", zap.String("reason", reason))
	}
	g.log.Info("batch drafted",
		zap.String("category", category),
		zap.Int("accepted", len(batch.Questions)),
		zap.Int("rejected", len(batch.Rejected)),
		zap.Int("prompt_tokens", resp.PromptTokens),
		zap.Int("output_tokens", resp.OutputTokens),
	)
	return batch, resp, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
	log    *zap.Logger
}

func NewAPIClient(apiKey, model string, log *zap.Logger) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &APIClient{client: &client, model: model, log: log}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			c.log.Warn("retrying Anthropic API call", zap.Duration("wait", wait), zap.Int("attempt", attempt+1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		c.log.Warn("Anthropic API attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content:      buildMockJSON(),
		PromptTokens: 900,
		OutputTokens: 1400,
	}, nil
}

func buildMockJSON() string {
	drafts := []struct{ stem, drug, dose, wrong string }{
		{"Paracetamol 1 g is charted for fever in an adult weighing 70 kg. Which administration is correct?", "paracetamol", "1 g", "10 g"},
		{"Enoxaparin 40 mg subcutaneously is prescribed for thromboprophylaxis after hip surgery. What should be given?", "enoxaparin", "40 mg", "400 mg"},
		{"A heart failure patient has furosemide 20 mg ordered intravenously this morning. Which dose is right?", "furosemide", "20 mg", "200 mg"},
		{"Morphine 2.5 mg is available as needed for breakthrough pain in palliative care. What is administered?", "morphine", "2.5 mg", "25 mg"},
		{"Amoxicillin 500 mg three times daily is started for community pneumonia. Which dose does the nurse prepare?", "amoxicillin", "500 mg", "5 g"},
	}

	batch := GeneratedBatch{}
	for i, d := range drafts {
		correct := i % OptionCount
		options := []string{
			fmt.Sprintf("[Mock] Give %s of %s", d.wrong, d.drug),
			fmt.Sprintf("[Mock] Hold %s and chart it", d.drug),
			fmt.Sprintf("[Mock] Double the next %s dose", d.drug),
		}
		options = slices.Insert(options, correct, fmt.Sprintf("[Mock] Give %s of %s as prescribed", d.dose, d.drug))

		batch.Questions = append(batch.Questions, GeneratedQuestion{
			Question:    "[Mock] " + d.stem,
			Options:     options,
			Correct:     correct,
			Explanation: fmt.Sprintf("[Mock] The prescribed %s dose is %s; the other actions are dosing errors or omissions.", d.drug, d.dose),
		})
	}

	data, _ := json.Marshal(batch)
	return string(data)
}
