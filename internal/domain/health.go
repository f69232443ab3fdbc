package domain

// ============================================================
// Health API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// APIHealth is returned by GET /api/v1/health.
type APIHealth struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Dataset   *DatasetHealth `json:"dataset,omitempty"`
	Features  *Features      `json:"features,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// DatasetHealth embeds the dataset statistics with a loaded flag.
type DatasetHealth struct {
	Loaded bool `json:"loaded"`
	DatasetStats
}

// Features lists which optional integrations are configured.
type Features struct {
	LLMAvailable  bool `json:"llm_available"`
	ChatAvailable bool `json:"chat_available"`
}
