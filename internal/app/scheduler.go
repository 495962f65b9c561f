package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"oversee/internal/config"
)

// pollSchedule owns the per-resource refresh cadences. Each timer re-arms
// itself independently; no timer waits for another, and a timer tick issues a
// fetch whether or not an earlier request is still in flight.
type pollSchedule struct {
	decisions   time.Duration
	liveMetrics time.Duration
	trends      time.Duration
	status      time.Duration
}

func newPollSchedule(settings config.Settings) pollSchedule {
	return pollSchedule{
		decisions:   settings.DecisionsPollInterval(),
		liveMetrics: settings.LiveMetricsPollInterval(),
		trends:      settings.TrendsPollInterval(),
		status:      settings.StatusPollInterval(),
	}
}

func (p pollSchedule) decisionsTick() tea.Cmd {
	return tea.Tick(p.decisions, func(t time.Time) tea.Msg {
		return decisionsTickMsg(t)
	})
}

func (p pollSchedule) liveMetricsTick() tea.Cmd {
	return tea.Tick(p.liveMetrics, func(t time.Time) tea.Msg {
		return liveMetricsTickMsg(t)
	})
}

func (p pollSchedule) trendsTick() tea.Cmd {
	return tea.Tick(p.trends, func(t time.Time) tea.Msg {
		return trendsTickMsg(t)
	})
}

// statusTick re-arms the connectivity probe. The probe is periodic rather
// than one-shot so a backend that comes back up clears the banner without a
// restart.
func (p pollSchedule) statusTick() tea.Cmd {
	return tea.Tick(p.status, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}
