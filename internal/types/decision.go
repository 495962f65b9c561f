package types

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Decision struct {
	ID             string            `json:"id"`
	Agent          string            `json:"agent"`
	Step           string            `json:"step"`
	Recommendation string            `json:"recommendation"`
	Severity       Severity          `json:"severity"`
	Tools          []string          `json:"tools"`
	Stats          []ToolStat        `json:"stats"`
	Explanations   map[string]string `json:"explanations,omitempty"`
}

// OverrideTools returns every tool except the recommendation, preserving the
// backend-provided order.
func (d *Decision) OverrideTools() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Tools))
	for _, tool := range d.Tools {
		if tool == d.Recommendation {
			continue
		}
		out = append(out, tool)
	}
	return out
}

func (d *Decision) Explanation(tool string) string {
	if d == nil || len(d.Explanations) == 0 {
		return ""
	}
	return d.Explanations[tool]
}

type ToolStat struct {
	Tool        string  `json:"tool"`
	Successes   int     `json:"successes"`
	Total       int     `json:"total"`
	Failures    int     `json:"failures"`
	SuccessRate float64 `json:"success_rate"`
	// LastUsed is empty when the backend has never seen the tool run.
	LastUsed string `json:"last_used,omitempty"`
}
