package domain

import "encoding/json"

// ============================================================
// LLM: provider-neutral request/response shapes
// ============================================================

// Chat roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// TokenUsage tracks LLM token consumption for cost monitoring.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// LLMMessage is one turn of a conversation sent to the model.
// ToolCalls is set on assistant turns that requested tools; ToolCallID links
// a tool turn back to the call it answers.
type LLMMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition advertises a callable tool with a JSON-schema parameter object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// CompletionRequest is a chat completion with optional tools.
type CompletionRequest struct {
	System   string
	Messages []LLMMessage
	Tools    []ToolDefinition
}

// Completion is the model's answer to a prompt or a completion request.
type Completion struct {
	Text         string
	ToolCalls    []ToolCall
	FinishReason string
	Usage        TokenUsage
}

// LLMMetrics is returned by GET /api/v1/metrics/llm.
type LLMMetrics struct {
	TotalCalls           int64   `json:"total_calls"`
	ErrorRate            float64 `json:"error_rate"`
	EnhancedInsights     int64   `json:"enhanced_insights"`
	FallbackInsights     int64   `json:"fallback_insights"`
	FallbackRate         float64 `json:"fallback_rate"`
	PromptTokens         int64   `json:"prompt_tokens"`
	CompletionTokens     int64   `json:"completion_tokens"`
	AvgTokensPerCall     float64 `json:"avg_tokens_per_call"`
	AnalysisCacheHitRate float64 `json:"analysis_cache_hit_rate"`
	Period               string  `json:"period"`
}
