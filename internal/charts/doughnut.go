package charts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

var (
	chartTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	chartFrameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	chartLegendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	chartEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	slotAStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	slotBStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// Doughnut is a two-slot share chart. The terminal rendition is a split bar
// plus a legend; only the two-slot data array changes between polls.
type Doughnut struct {
	id     string
	title  string
	labels [2]string
	data   [2]int
}

func newDoughnut(id, title string, labels [2]string) *Doughnut {
	return &Doughnut{id: id, title: title, labels: labels}
}

func (d *Doughnut) ID() string {
	return d.id
}

// SetData replaces the two-slot data array in place.
func (d *Doughnut) SetData(a, b int) {
	d.data[0] = a
	d.data[1] = b
}

func (d *Doughnut) Data() [2]int {
	return d.data
}

func (d *Doughnut) Render(width int) string {
	innerWidth := max(16, width-4)
	lines := []string{chartTitleStyle.Render(truncateLabel(d.title, innerWidth))}

	total := d.data[0] + d.data[1]
	if total <= 0 {
		lines = append(lines, chartEmptyStyle.Render("no data"))
	} else {
		barWidth := innerWidth
		segA := (d.data[0]*barWidth + total/2) / total
		if segA > barWidth {
			segA = barWidth
		}
		bar := slotAStyle.Render(strings.Repeat("█", segA)) + slotBStyle.Render(strings.Repeat("█", barWidth-segA))
		lines = append(lines, bar)
	}

	for i, label := range d.labels {
		style := slotAStyle
		if i == 1 {
			style = slotBStyle
		}
		entry := fmt.Sprintf("%s %s  %d", style.Render("■"), label, d.data[i])
		lines = append(lines, chartLegendStyle.Render(truncateLabel(entry, innerWidth)))
	}
	return chartFrameStyle.Render(strings.Join(lines, "\n"))
}

func truncateLabel(text string, width int) string {
	if width <= 0 || xansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return xansi.Cut(text, 0, width-1) + "…"
}
