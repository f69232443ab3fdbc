package domain

// InsightType is the kind of finding an insight reports.
type InsightType string

const (
	InsightWarning        InsightType = "warning"
	InsightTrend          InsightType = "trend"
	InsightRecommendation InsightType = "recommendation"
)

// Insight is a short, rule-derived finding about the user's finances.
// DeepAnalysis is always populated, either by the rule or by the LLM.
type Insight struct {
	Type         InsightType `json:"type"`
	Title        string      `json:"title"`
	Message      string      `json:"message"`
	DeepAnalysis string      `json:"deep_analysis"`
}
