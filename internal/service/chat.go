package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxChatSteps bounds model round trips per chat message.
const maxChatSteps = 5

const chatSystemPrompt = `Anda adalah asisten keuangan pribadi yang membantu pengguna memahami dan menganalisis data transaksi keuangan mereka.

Anda memiliki akses ke berbagai tools untuk mengambil data dari database transaksi pengguna. Gunakan tools ini untuk menjawab pertanyaan pengguna dengan data yang akurat.

Panduan:
- Selalu gunakan tools yang tersedia untuk mendapatkan data sebelum menjawab
- Tulis dalam Bahasa Indonesia yang profesional namun ramah
- Format mata uang sebagai Rupiah (Rp X.XXX.XXX)
- Berikan insight yang actionable berdasarkan data
- Jika pengguna tidak menentukan tanggal, gunakan seluruh rentang data yang tersedia
- Jelaskan angka-angka dengan konteks yang relevan

Kemampuan Anda:
- Melihat ringkasan keuangan (total income, expense, net cashflow)
- Menganalisis pengeluaran dan pemasukan per kategori
- Melihat tren bulanan dan pola pengeluaran
- Mencari transaksi spesifik
- Memberikan saran pengelolaan keuangan`

// ChatService answers free-form questions about a wallet by letting the
// model call data tools. A nil completer disables it.
type ChatService struct {
	completer port.ChatCompleter
	analysis  *AnalysisService
	metrics   *observability.Metrics
	logger    *zap.Logger
}

func NewChatService(completer port.ChatCompleter, analysis *AnalysisService, metrics *observability.Metrics, logger *zap.Logger) *ChatService {
	return &ChatService{
		completer: completer,
		analysis:  analysis,
		metrics:   metrics,
		logger:    logger,
	}
}

func (c *ChatService) Available() bool {
	return c != nil && c.completer != nil
}

// Status reports availability and the configured model.
func (c *ChatService) Status() domain.ChatStatus {
	if !c.Available() {
		return domain.ChatStatus{}
	}
	model := c.completer.Model()
	return domain.ChatStatus{Available: true, Model: &model}
}

// ValidateChatRequest reports every problem with req, comma separated.
func ValidateChatRequest(req *domain.ChatRequest) error {
	var problems []string
	if strings.TrimSpace(req.Message) == "" {
		problems = append(problems, "Message is required")
	}
	if strings.TrimSpace(req.PocketID) == "" {
		problems = append(problems, "pocket_id is required")
	}
	for _, h := range req.History {
		if h.Role != domain.RoleUser && h.Role != domain.RoleAssistant {
			problems = append(problems, "history role must be user or assistant")
			break
		}
	}
	if len(problems) > 0 {
		return &domain.ErrValidation{Field: "body", Message: strings.Join(problems, ", ")}
	}
	return nil
}

// Chat runs the tool loop for one user message.
func (c *ChatService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := ValidateChatRequest(req); err != nil {
		return nil, err
	}
	if !c.Available() {
		return nil, &domain.ErrUnavailable{
			Feature: "Chat service",
			Hint:    "Please configure OPENROUTER_API_KEY and OPENROUTER_MODEL environment variables.",
		}
	}

	ctx, span := tracer.Start(ctx, "ChatService.Chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("pocket.id", req.PocketID),
		attribute.Int("chat.history", len(req.History)),
	)

	start := time.Now()
	defer func() {
		c.metrics.RecordRequestDuration("chat", time.Since(start))
	}()

	tools, err := newChatTools(ctx, c.analysis, req.PocketID)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.LLMMessage, 0, len(req.History)+1)
	for _, h := range req.History {
		messages = append(messages, domain.LLMMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, domain.LLMMessage{Role: domain.RoleUser, Content: req.Message})

	var (
		text      string
		toolsUsed = []string{}
		seen      = map[string]bool{}
	)

	for step := 0; step < maxChatSteps; step++ {
		resp, err := c.completer.Complete(ctx, &domain.CompletionRequest{
			System:   chatSystemPrompt,
			Messages: messages,
			Tools:    chatToolDefinitions,
		})
		if err != nil {
			c.logger.Error("chat completion failed",
				zap.String("pocket_id", req.PocketID),
				zap.Int("step", step),
				zap.Error(err),
			)
			return nil, fmt.Errorf("chat completion: %w", err)
		}

		text = resp.Text
		if len(resp.ToolCalls) == 0 {
			break
		}

		messages = append(messages, domain.LLMMessage{
			Role:      domain.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			if !seen[call.Name] {
				seen[call.Name] = true
				toolsUsed = append(toolsUsed, call.Name)
			}
			c.metrics.IncrChatTool(call.Name)

			result := tools.run(ctx, call.Name, call.Arguments)
			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(`{"error":"result not encodable"}`)
			}
			messages = append(messages, domain.LLMMessage{
				Role:       domain.RoleTool,
				Content:    string(payload),
				ToolCallID: call.ID,
			})
		}
	}

	c.logger.Info("chat answered",
		zap.String("pocket_id", req.PocketID),
		zap.Strings("tools_used", toolsUsed),
	)

	return &domain.ChatResponse{Response: text, ToolsUsed: toolsUsed}, nil
}
