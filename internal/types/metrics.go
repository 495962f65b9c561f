package types

import (
	"strings"
	"time"
)

type DBStatus struct {
	Available bool `json:"available"`
}

// MetricsSnapshot is a point-in-time aggregate over the last day of decisions.
// Each poll replaces the previous snapshot wholesale.
type MetricsSnapshot struct {
	Total      int     `json:"total"`
	APIPct     float64 `json:"api_pct"`
	RPAPct     float64 `json:"rpa_pct"`
	APICount   int     `json:"api_count"`
	RPACount   int     `json:"rpa_count"`
	Approved   int     `json:"approved"`
	Overridden int     `json:"overridden"`
}

// TrendPoint is one hourly bucket of the trend series. Timestamp is epoch
// milliseconds; SuccessRate is already scaled 0..100 by the backend.
type TrendPoint struct {
	Timestamp       int64   `json:"timestamp"`
	SuccessRate     float64 `json:"success_rate"`
	APICount        int     `json:"api_count"`
	RPACount        int     `json:"rpa_count"`
	ApprovedCount   int     `json:"approved_count"`
	OverriddenCount int     `json:"overridden_count"`
}

// Label renders the bucket timestamp as a local time string for chart labels.
func (p TrendPoint) Label() string {
	return time.UnixMilli(p.Timestamp).Local().Format("15:04")
}

const AgentAll = "All"

// TrendFilter selects the agent/day-window for trend queries. It is held only
// in memory by the metrics controller and resets on restart.
type TrendFilter struct {
	Agent string
	Days  int
}

func (f TrendFilter) Normalized() TrendFilter {
	if strings.TrimSpace(f.Agent) == "" {
		f.Agent = AgentAll
	}
	if f.Days < 1 {
		f.Days = 1
	}
	return f
}

func DefaultTrendFilter() TrendFilter {
	return TrendFilter{Agent: AgentAll, Days: 1}
}

// ExportFilter parameterizes the decision export download.
type ExportFilter struct {
	Agent  string
	Status string
	Days   int
	Format string
}

func (f ExportFilter) Normalized() ExportFilter {
	if strings.TrimSpace(f.Agent) == "" {
		f.Agent = AgentAll
	}
	if strings.TrimSpace(f.Format) == "" {
		f.Format = "csv"
	}
	if f.Days < 1 {
		f.Days = 1
	}
	return f
}
