package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"oversee/internal/charts"
	"oversee/internal/types"
)

// Chart ids. Each id is registered exactly once per session; the handles are
// mutated in place on every poll.
const (
	chartLiveShare     = "live-share"
	chartTrendSuccess  = "trend-success"
	chartTrendUsage    = "trend-usage"
	chartTrendOutcomes = "trend-outcomes"
)

var trendDayChoices = []int{1, 7, 30}

// MetricsController renders the live snapshot and the filtered trend series.
// It is the only writer of the four charts it registers.
type MetricsController struct {
	registry *charts.Registry

	snapshot     types.MetricsSnapshot
	haveSnapshot bool
	liveErr      string
	liveSeq      int

	filter   types.TrendFilter
	points   []types.TrendPoint
	trendErr string
	trendSeq int

	chartCursor int

	doughnut    *charts.Doughnut
	successLine *charts.Line
	usageLine   *charts.Line
	outcomeLine *charts.Line
}

func NewMetricsController(registry *charts.Registry) *MetricsController {
	return &MetricsController{
		registry:    registry,
		filter:      types.DefaultTrendFilter(),
		doughnut:    registry.Doughnut(chartLiveShare, "API vs RPA (24h)", [2]string{"api", "rpa"}),
		successLine: registry.Line(chartTrendSuccess, "Success rate", true),
		usageLine:   registry.Line(chartTrendUsage, "API vs RPA usage", false),
		outcomeLine: registry.Line(chartTrendOutcomes, "Approved vs overridden", false),
	}
}

func (c *MetricsController) BeginLiveFetch() int {
	c.liveSeq++
	return c.liveSeq
}

// ApplyLive overwrites the six scalar fields and the doughnut's two-slot data
// array. The previous snapshot is replaced wholesale.
func (c *MetricsController) ApplyLive(msg liveMetricsMsg) bool {
	if msg.seq != c.liveSeq {
		return false
	}
	if msg.err != nil {
		c.liveErr = msg.err.Error()
		return true
	}
	c.liveErr = ""
	c.haveSnapshot = true
	c.snapshot = *msg.snapshot
	c.doughnut.SetData(c.snapshot.APICount, c.snapshot.RPACount)
	return true
}

func (c *MetricsController) BeginTrendsFetch() int {
	c.trendSeq++
	return c.trendSeq
}

// ApplyTrends folds a trend response into the three line charts. Responses
// carrying a stale seq are dropped, so after two filter changes the charts
// always reflect the last-issued filter regardless of arrival order.
func (c *MetricsController) ApplyTrends(msg trendsMsg) bool {
	if msg.seq != c.trendSeq {
		return false
	}
	if msg.err != nil {
		c.trendErr = msg.err.Error()
		return true
	}
	c.trendErr = ""
	c.points = msg.points

	labels := make([]string, len(msg.points))
	success := make([]float64, len(msg.points))
	apiCounts := make([]float64, len(msg.points))
	rpaCounts := make([]float64, len(msg.points))
	approved := make([]float64, len(msg.points))
	overridden := make([]float64, len(msg.points))
	for i, point := range msg.points {
		labels[i] = point.Label()
		success[i] = point.SuccessRate
		apiCounts[i] = float64(point.APICount)
		rpaCounts[i] = float64(point.RPACount)
		approved[i] = float64(point.ApprovedCount)
		overridden[i] = float64(point.OverriddenCount)
	}

	c.successLine.SetSeries(labels, charts.Series{Name: "success %", Values: success})
	c.usageLine.SetSeries(labels,
		charts.Series{Name: "api", Values: apiCounts},
		charts.Series{Name: "rpa", Values: rpaCounts},
	)
	c.outcomeLine.SetSeries(labels,
		charts.Series{Name: "approved", Values: approved},
		charts.Series{Name: "overridden", Values: overridden},
	)
	return true
}

func (c *MetricsController) Filter() types.TrendFilter {
	return c.filter
}

// CycleAgent advances the agent filter through All plus the known agents and
// returns the new filter. The caller must trigger an immediate refetch; the
// new filter applies to the next fetch only, never retroactively.
func (c *MetricsController) CycleAgent(agents []string) types.TrendFilter {
	choices := append([]string{types.AgentAll}, agents...)
	next := 0
	for i, choice := range choices {
		if choice == c.filter.Agent {
			next = (i + 1) % len(choices)
			break
		}
	}
	c.filter.Agent = choices[next]
	return c.filter
}

// CycleDays advances the day window through 1, 7, 30 and returns the new
// filter.
func (c *MetricsController) CycleDays() types.TrendFilter {
	next := trendDayChoices[0]
	for i, choice := range trendDayChoices {
		if choice == c.filter.Days {
			next = trendDayChoices[(i+1)%len(trendDayChoices)]
			break
		}
	}
	c.filter.Days = next
	return c.filter
}

func (c *MetricsController) chartIDs() []string {
	return []string{chartLiveShare, chartTrendSuccess, chartTrendUsage, chartTrendOutcomes}
}

func (c *MetricsController) MoveChartCursor(delta int) {
	ids := c.chartIDs()
	c.chartCursor = (c.chartCursor + delta + len(ids)) % len(ids)
}

// SelectedChart returns the chart the snapshot/copy actions operate on.
func (c *MetricsController) SelectedChart() charts.Chart {
	chart, _ := c.registry.Get(c.chartIDs()[c.chartCursor])
	return chart
}

func (c *MetricsController) View(width int) string {
	var sections []string

	if c.liveErr != "" {
		sections = append(sections, unavailableStyle.Render("live metrics unavailable: "+c.liveErr))
	} else if !c.haveSnapshot {
		sections = append(sections, emptyStyle.Render("loading live metrics…"))
	} else {
		sections = append(sections, c.scalarView(width))
	}

	filterLine := filterStyle.Render(fmt.Sprintf("filter: agent=%s days=%d", c.filter.Agent, c.filter.Days))
	sections = append(sections, filterLine)

	if c.trendErr != "" {
		sections = append(sections, unavailableStyle.Render("trends unavailable: "+c.trendErr))
	}

	chartWidth := max(24, width/2-2)
	ids := c.chartIDs()
	rendered := make([]string, 0, len(ids))
	for i, id := range ids {
		chart, ok := c.registry.Get(id)
		if !ok {
			continue
		}
		block := chart.Render(chartWidth)
		if i == c.chartCursor {
			block = lipgloss.JoinHorizontal(lipgloss.Top, selectedStyle.Render("▌"), block)
		}
		rendered = append(rendered, block)
	}
	if len(rendered) >= 2 {
		top := lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], " ", rendered[1])
		rest := rendered[2:]
		if len(rest) == 2 {
			bottom := lipgloss.JoinHorizontal(lipgloss.Top, rest[0], " ", rest[1])
			sections = append(sections, top, bottom)
		} else {
			sections = append(sections, top)
			sections = append(sections, rest...)
		}
	} else {
		sections = append(sections, rendered...)
	}

	return strings.Join(sections, "\n")
}

// scalarView renders the scalar display fields overwritten by each live poll.
func (c *MetricsController) scalarView(width int) string {
	fields := []struct {
		label string
		value string
	}{
		{"total", fmt.Sprintf("%d", c.snapshot.Total)},
		{"api", formatPct(c.snapshot.APIPct)},
		{"rpa", formatPct(c.snapshot.RPAPct)},
		{"api count", fmt.Sprintf("%d", c.snapshot.APICount)},
		{"rpa count", fmt.Sprintf("%d", c.snapshot.RPACount)},
		{"approved", fmt.Sprintf("%d", c.snapshot.Approved)},
		{"overridden", fmt.Sprintf("%d", c.snapshot.Overridden)},
	}
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fieldLabelStyle.Render(field.label+" ") + fieldValueStyle.Render(field.value)
	}
	return truncateToWidth(strings.Join(parts, "  "), width)
}
