package domain

// ============================================================
// Chat API: POST /api/v1/chat
// ============================================================

// ChatHistoryMessage is a prior turn supplied by the client.
type ChatHistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message  string               `json:"message"`
	PocketID string               `json:"pocket_id"`
	History  []ChatHistoryMessage `json:"history"`
}

// ChatResponse is the chat answer plus the distinct tools the model used.
type ChatResponse struct {
	Response  string   `json:"response"`
	ToolsUsed []string `json:"tools_used"`
}

// ChatStatus is returned by GET /api/v1/chat/status.
type ChatStatus struct {
	Available bool    `json:"available"`
	Model     *string `json:"model"`
}
