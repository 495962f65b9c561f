package charts

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

var seriesStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
}

type Series struct {
	Name   string
	Values []float64
}

// Line is a multi-series time chart rendered as one sparkline row per series.
// SetSeries replaces labels and values in place; the handle survives polls.
type Line struct {
	id      string
	title   string
	bounded bool
	labels  []string
	series  []Series
}

func newLine(id, title string, bounded bool) *Line {
	return &Line{id: id, title: title, bounded: bounded}
}

func (l *Line) ID() string {
	return l.id
}

// SetSeries replaces the chart's label set and series data.
func (l *Line) SetSeries(labels []string, series ...Series) {
	l.labels = append(l.labels[:0], labels...)
	l.series = append(l.series[:0], series...)
}

func (l *Line) Labels() []string {
	return append([]string(nil), l.labels...)
}

func (l *Line) Series() []Series {
	return append([]Series(nil), l.series...)
}

func (l *Line) Bounded() bool {
	return l.bounded
}

func (l *Line) Render(width int) string {
	innerWidth := max(16, width-4)
	lines := []string{chartTitleStyle.Render(truncateLabel(l.title, innerWidth))}

	if len(l.series) == 0 || l.pointCount() == 0 {
		lines = append(lines, chartEmptyStyle.Render("no data"))
		return chartFrameStyle.Render(strings.Join(lines, "\n"))
	}

	scale := l.scaleCeiling()
	nameWidth := l.nameWidth(innerWidth)
	sparkWidth := max(1, innerWidth-nameWidth-1)
	for i, series := range l.series {
		style := seriesStyles[i%len(seriesStyles)]
		name := padLabel(truncateLabel(series.Name, nameWidth), nameWidth)
		row := style.Render(name) + " " + style.Render(sparkline(series.Values, scale, sparkWidth))
		lines = append(lines, row)
	}

	if footer := l.footer(innerWidth); footer != "" {
		lines = append(lines, chartLegendStyle.Render(footer))
	}
	return chartFrameStyle.Render(strings.Join(lines, "\n"))
}

func (l *Line) pointCount() int {
	count := 0
	for _, series := range l.series {
		if len(series.Values) > count {
			count = len(series.Values)
		}
	}
	return count
}

// scaleCeiling picks the sparkline ceiling: a fixed 100 for bounded charts,
// otherwise the maximum observed value.
func (l *Line) scaleCeiling() float64 {
	if l.bounded {
		return 100
	}
	ceiling := 1.0
	for _, series := range l.series {
		for _, v := range series.Values {
			if v > ceiling {
				ceiling = v
			}
		}
	}
	return ceiling
}

func (l *Line) nameWidth(innerWidth int) int {
	width := 0
	for _, series := range l.series {
		if w := xansi.StringWidth(series.Name); w > width {
			width = w
		}
	}
	if limit := innerWidth / 3; width > limit {
		width = limit
	}
	return max(1, width)
}

func (l *Line) footer(innerWidth int) string {
	if len(l.labels) == 0 {
		return ""
	}
	first := l.labels[0]
	last := l.labels[len(l.labels)-1]
	if first == last {
		return truncateLabel(first, innerWidth)
	}
	text := fmt.Sprintf("%s … %s", first, last)
	return truncateLabel(text, innerWidth)
}

func sparkline(values []float64, ceiling float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteRune(sparkRune(v, ceiling))
	}
	return b.String()
}

func sparkRune(value, ceiling float64) rune {
	if ceiling <= 0 || math.IsNaN(value) {
		return sparkRunes[0]
	}
	if value < 0 {
		value = 0
	}
	if value > ceiling {
		value = ceiling
	}
	idx := int(math.Round(value / ceiling * float64(len(sparkRunes)-1)))
	return sparkRunes[idx]
}

func padLabel(text string, width int) string {
	if w := xansi.StringWidth(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}
