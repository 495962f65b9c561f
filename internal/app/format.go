package app

import (
	"math"
	"strconv"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// formatPct renders a backend-computed percentage (already 0..100) without
// trailing zeros: 62.5 -> "62.5%", 37.0 -> "37%".
func formatPct(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "%"
}

// formatRate renders a 0..1 success rate as a rounded whole percentage:
// 0.9 -> "90%".
func formatRate(rate float64) string {
	return strconv.Itoa(int(math.Round(rate*100))) + "%"
}

// formatLastUsed renders a tool's last-used timestamp, with the literal "N/A"
// sentinel when the backend has never recorded a run.
func formatLastUsed(lastUsed string) string {
	lastUsed = strings.TrimSpace(lastUsed)
	if lastUsed == "" {
		return "N/A"
	}
	return lastUsed
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	if xansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return xansi.Cut(text, 0, width-1) + "…"
}

func padToWidth(text string, width int) string {
	if w := xansi.StringWidth(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}
