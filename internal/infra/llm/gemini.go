package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini generates insight prose through the Gemini API. It has no tool
// calling, so it only backs enhancement and summaries.
type Gemini struct {
	client   *genai.Client
	model    string
	cb       *gobreaker.CircuitBreaker
	cfg      resilience.Config
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
}

func NewGemini(ctx context.Context, apiKey, model string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{
		client:   client,
		model:    model,
		cb:       cb,
		cfg:      cfg,
		bulkhead: resilience.NewBulkhead(cfg.MaxConcurrency),
		metrics:  metrics,
	}, nil
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, system, prompt string) (*domain.Completion, error) {
	ctx, span := tracer.Start(ctx, "Gemini.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", g.model))

	if err := g.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrTimeout{Operation: "gemini bulkhead"}
	}
	defer g.bulkhead.Release()

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	out, err := resilience.Call(ctx, g.cb, g.cfg, "gemini", func(ctx context.Context) (*domain.Completion, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return nil, fmt.Errorf("empty response from model")
		}
		c := &domain.Completion{Text: text}
		if u := resp.UsageMetadata; u != nil {
			c.Usage = domain.TokenUsage{
				PromptTokens:     int(u.PromptTokenCount),
				CompletionTokens: int(u.CandidatesTokenCount),
				TotalTokens:      int(u.TotalTokenCount),
			}
		}
		return c, nil
	})

	var usage domain.TokenUsage
	if out != nil {
		usage = out.Usage
	}
	if g.metrics != nil {
		g.metrics.RecordLLMCall(err, usage)
		if err != nil {
			g.metrics.IncrExternalError("gemini")
		}
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}
