package app

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"

	"oversee/internal/charts"
	"oversee/internal/types"
)

func TestLiveSnapshotOverwritesScalarsAndDoughnut(t *testing.T) {
	registry := charts.NewRegistry()
	controller := NewMetricsController(registry)

	seq := controller.BeginLiveFetch()
	applied := controller.ApplyLive(liveMetricsMsg{seq: seq, snapshot: &types.MetricsSnapshot{
		Total:      8,
		APIPct:     62.5,
		RPAPct:     37.5,
		APICount:   5,
		RPACount:   3,
		Approved:   6,
		Overridden: 2,
	}})
	if !applied {
		t.Fatal("current response must be applied")
	}

	plain := xansi.Strip(controller.View(120))
	if !strings.Contains(plain, "62.5%") {
		t.Fatalf("missing api percentage:\n%s", plain)
	}
	if !strings.Contains(plain, "37.5%") {
		t.Fatalf("missing rpa percentage:\n%s", plain)
	}

	chart, ok := registry.Get(chartLiveShare)
	if !ok {
		t.Fatal("live share chart not registered")
	}
	if data := chart.(*charts.Doughnut).Data(); data != [2]int{5, 3} {
		t.Fatalf("unexpected doughnut data: %v", data)
	}
}

func TestChartsRegisteredOncePerSession(t *testing.T) {
	registry := charts.NewRegistry()
	controller := NewMetricsController(registry)
	if registry.Len() != 4 {
		t.Fatalf("expected 4 charts after construction, got %d", registry.Len())
	}

	before, _ := registry.Get(chartTrendSuccess)
	for range 3 {
		seq := controller.BeginTrendsFetch()
		controller.ApplyTrends(trendsMsg{seq: seq, points: []types.TrendPoint{
			{Timestamp: 1735736400000, SuccessRate: 80, APICount: 4, RPACount: 2},
		}})
	}
	after, _ := registry.Get(chartTrendSuccess)

	if registry.Len() != 4 {
		t.Fatalf("poll created a chart, registry has %d", registry.Len())
	}
	if before != after {
		t.Fatal("poll replaced a chart handle instead of mutating it")
	}
}

func TestTrendsLastIssuedWins(t *testing.T) {
	registry := charts.NewRegistry()
	controller := NewMetricsController(registry)

	stale := controller.BeginTrendsFetch()
	current := controller.BeginTrendsFetch()

	if !controller.ApplyTrends(trendsMsg{seq: current, points: []types.TrendPoint{
		{Timestamp: 1735736400000, SuccessRate: 95},
	}}) {
		t.Fatal("current response must be applied")
	}
	if controller.ApplyTrends(trendsMsg{seq: stale, points: []types.TrendPoint{
		{Timestamp: 1735736400000, SuccessRate: 10},
	}}) {
		t.Fatal("stale response must be discarded")
	}

	series := controller.successLine.Series()
	if len(series) != 1 || len(series[0].Values) != 1 || series[0].Values[0] != 95 {
		t.Fatalf("stale response reached the chart: %+v", series)
	}
}

func TestCycleAgentWalksAllThenKnownAgents(t *testing.T) {
	controller := NewMetricsController(charts.NewRegistry())
	agents := []string{"invoice-bot", "refund-bot"}

	filter := controller.CycleAgent(agents)
	if filter.Agent != "invoice-bot" {
		t.Fatalf("expected invoice-bot, got %q", filter.Agent)
	}
	filter = controller.CycleAgent(agents)
	if filter.Agent != "refund-bot" {
		t.Fatalf("expected refund-bot, got %q", filter.Agent)
	}
	filter = controller.CycleAgent(agents)
	if filter.Agent != types.AgentAll {
		t.Fatalf("expected wrap to %q, got %q", types.AgentAll, filter.Agent)
	}
}

func TestCycleDays(t *testing.T) {
	controller := NewMetricsController(charts.NewRegistry())
	if controller.Filter().Days != 1 {
		t.Fatalf("unexpected initial days: %d", controller.Filter().Days)
	}
	if filter := controller.CycleDays(); filter.Days != 7 {
		t.Fatalf("expected 7, got %d", filter.Days)
	}
	if filter := controller.CycleDays(); filter.Days != 30 {
		t.Fatalf("expected 30, got %d", filter.Days)
	}
	if filter := controller.CycleDays(); filter.Days != 1 {
		t.Fatalf("expected wrap to 1, got %d", filter.Days)
	}
}

func TestChartCursorWraps(t *testing.T) {
	controller := NewMetricsController(charts.NewRegistry())
	if got := controller.SelectedChart().ID(); got != chartLiveShare {
		t.Fatalf("unexpected initial selection: %s", got)
	}
	controller.MoveChartCursor(-1)
	if got := controller.SelectedChart().ID(); got != chartTrendOutcomes {
		t.Fatalf("expected wrap to last chart, got %s", got)
	}
	controller.MoveChartCursor(1)
	if got := controller.SelectedChart().ID(); got != chartLiveShare {
		t.Fatalf("expected wrap back to first chart, got %s", got)
	}
}
