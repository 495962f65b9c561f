package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"oversee/internal/charts"
	"oversee/internal/config"
	"oversee/internal/logging"
)

// API is the full backend surface the dashboard talks to.
type API interface {
	DecisionAPI
	PolicyAPI
	MetricsAPI
	StatusAPI
}

type tab int

const (
	tabDecisions tab = iota
	tabPolicy
	tabMetrics
)

var tabTitles = []string{"Decisions", "Policy", "Metrics"}

// Model is the root bubbletea model. It owns the per-tab controllers, the
// chart registry, and the poll timers; all backend traffic flows through the
// commands it issues.
type Model struct {
	api      API
	logger   logging.Logger
	schedule pollSchedule

	exportDir string

	registry  *charts.Registry
	decisions *DecisionQueueController
	policy    *PolicyController
	metrics   *MetricsController

	activeTab tab
	width     int
	height    int

	statusSeq   int
	backendDown bool

	loading spinner.Model

	toastText  string
	toastLevel toastLevel
	toastUntil time.Time
}

func NewModel(api API, settings config.Settings, exportDir string, logger logging.Logger) *Model {
	registry := charts.NewRegistry()
	return &Model{
		api:       api,
		logger:    logger,
		schedule:  newPollSchedule(settings),
		exportDir: exportDir,
		registry:  registry,
		decisions: NewDecisionQueueController(),
		policy:    NewPolicyController(72, 14),
		metrics:   NewMetricsController(registry),
		loading:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
}

// Run starts the interactive dashboard and blocks until the user quits.
func Run(api API, settings config.Settings, logger logging.Logger) error {
	exportDir, err := settings.ExportDir()
	if err != nil {
		return err
	}
	program := tea.NewProgram(NewModel(api, settings, exportDir, logger), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	m.statusSeq++
	return tea.Batch(
		fetchDBStatusCmd(m.api, m.statusSeq),
		fetchDecisionsCmd(m.api, m.decisions.BeginFetch()),
		fetchPolicyCmd(m.api, m.policy.BeginFetch()),
		fetchPolicyHistoryCmd(m.api, m.policy.BeginHistoryFetch()),
		fetchLiveMetricsCmd(m.api, m.metrics.BeginLiveFetch()),
		fetchTrendsCmd(m.api, m.metrics.Filter(), m.metrics.BeginTrendsFetch()),
		m.schedule.decisionsTick(),
		m.schedule.liveMetricsTick(),
		m.schedule.trendsTick(),
		m.schedule.statusTick(),
		m.loading.Tick,
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.policy.Resize(max(40, msg.Width-4), max(6, msg.Height-14))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd

	case decisionsTickMsg:
		return m, tea.Batch(
			fetchDecisionsCmd(m.api, m.decisions.BeginFetch()),
			m.schedule.decisionsTick(),
		)
	case liveMetricsTickMsg:
		return m, tea.Batch(
			fetchLiveMetricsCmd(m.api, m.metrics.BeginLiveFetch()),
			m.schedule.liveMetricsTick(),
		)
	case trendsTickMsg:
		return m, tea.Batch(
			fetchTrendsCmd(m.api, m.metrics.Filter(), m.metrics.BeginTrendsFetch()),
			m.schedule.trendsTick(),
		)
	case statusTickMsg:
		m.statusSeq++
		return m, tea.Batch(
			fetchDBStatusCmd(m.api, m.statusSeq),
			m.schedule.statusTick(),
		)

	case dbStatusMsg:
		if msg.seq == m.statusSeq {
			down := msg.err != nil || msg.status == nil || !msg.status.Available
			if down && !m.backendDown && msg.err != nil {
				m.logger.Warn("backend unreachable", logging.F("error", msg.err))
			}
			m.backendDown = down
		}
		return m, nil

	case decisionsMsg:
		m.decisions.Apply(msg)
		return m, nil

	case approveMsg:
		if msg.err != nil {
			m.logger.Error("decision action failed", logging.F("id", msg.id), logging.F("error", msg.err))
			m.showErrorToast("action failed: " + msg.err.Error())
			return m, nil
		}
		m.logger.Info("decision resolved", logging.F("id", msg.id), logging.F("choice", msg.choice))
		m.showInfoToast(fmt.Sprintf("recorded %s for %s", msg.choice, msg.id))
		return m, fetchDecisionsCmd(m.api, m.decisions.BeginFetch())

	case policyMsg:
		m.policy.ApplyPolicy(msg)
		return m, nil

	case policySavedMsg:
		m.policy.SetSaving(false)
		if msg.err != nil {
			m.showErrorToast("policy save failed: " + msg.err.Error())
			return m, nil
		}
		m.showInfoToast("policy saved")
		return m, tea.Batch(
			fetchPolicyCmd(m.api, m.policy.BeginFetch()),
			fetchPolicyHistoryCmd(m.api, m.policy.BeginHistoryFetch()),
		)

	case policyHistoryMsg:
		m.policy.ApplyHistory(msg)
		return m, nil

	case liveMetricsMsg:
		m.metrics.ApplyLive(msg)
		return m, nil

	case trendsMsg:
		m.metrics.ApplyTrends(msg)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.showErrorToast("export failed: " + msg.err.Error())
			return m, nil
		}
		m.showInfoToast(fmt.Sprintf("exported %d bytes to %s", msg.bytes, msg.path))
		return m, nil

	case snapshotSavedMsg:
		if msg.err != nil {
			m.showErrorToast("snapshot failed: " + msg.err.Error())
			return m, nil
		}
		m.showInfoToast("snapshot written to " + msg.path)
		return m, nil

	case clipboardResultMsg:
		if msg.err != nil {
			m.showErrorToast("copy failed: " + msg.err.Error())
			return m, nil
		}
		m.showInfoToast(msg.success)
		return m, nil
	}

	if m.activeTab == tabPolicy && m.policy.Editing() {
		return m, m.policy.UpdateEditor(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The focused editor owns the keyboard except for save and blur.
	if m.activeTab == tabPolicy && m.policy.Editing() {
		switch msg.String() {
		case "esc":
			m.policy.BlurEditor()
			return m, nil
		case "ctrl+s":
			return m, m.savePolicy()
		case "ctrl+c":
			return m, tea.Quit
		default:
			return m, m.policy.UpdateEditor(msg)
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.activeTab = (m.activeTab + 1) % tab(len(tabTitles))
		return m, nil
	case "1":
		m.activeTab = tabDecisions
		return m, nil
	case "2":
		m.activeTab = tabPolicy
		return m, nil
	case "3":
		m.activeTab = tabMetrics
		return m, nil
	}

	switch m.activeTab {
	case tabDecisions:
		return m.handleDecisionsKey(msg)
	case tabPolicy:
		return m.handlePolicyKey(msg)
	case tabMetrics:
		return m.handleMetricsKey(msg)
	}
	return m, nil
}

func (m *Model) handleDecisionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.decisions.MoveCursor(1)
	case "k", "up":
		m.decisions.MoveCursor(-1)
	case "l", "right":
		m.decisions.MoveAction(1)
	case "h", "left":
		m.decisions.MoveAction(-1)
	case "enter":
		id, choice, ok := m.decisions.SelectedAction()
		if !ok {
			return m, nil
		}
		return m, approveDecisionCmd(m.api, id, choice)
	case "r":
		return m, fetchDecisionsCmd(m.api, m.decisions.BeginFetch())
	case "e":
		return m, exportDecisionsCmd(m.api, m.decisions.ExportFilter(), m.exportDir)
	case "y":
		url := m.api.DecisionsExportURL(m.decisions.ExportFilter())
		return m, copyToClipboardCmd(url, "export link copied")
	}
	return m, nil
}

func (m *Model) handlePolicyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "i":
		return m, m.policy.FocusEditor()
	case "ctrl+s":
		return m, m.savePolicy()
	case "ctrl+r":
		return m, tea.Batch(
			fetchPolicyCmd(m.api, m.policy.BeginFetch()),
			fetchPolicyHistoryCmd(m.api, m.policy.BeginHistoryFetch()),
		)
	}
	return m, nil
}

func (m *Model) handleMetricsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		filter := m.metrics.CycleAgent(m.decisions.Agents())
		return m, fetchTrendsCmd(m.api, filter, m.metrics.BeginTrendsFetch())
	case "d":
		filter := m.metrics.CycleDays()
		return m, fetchTrendsCmd(m.api, filter, m.metrics.BeginTrendsFetch())
	case "l", "right":
		m.metrics.MoveChartCursor(1)
	case "h", "left":
		m.metrics.MoveChartCursor(-1)
	case "e":
		return m, exportMetricsCmd(m.api, m.metrics.Filter(), m.exportDir)
	case "s":
		if chart := m.metrics.SelectedChart(); chart != nil {
			return m, snapshotChartCmd(m.exportDir, chart, m.chartSnapshotWidth())
		}
	case "y":
		if chart := m.metrics.SelectedChart(); chart != nil {
			text := charts.SnapshotText(chart, m.chartSnapshotWidth())
			return m, copyToClipboardCmd(text, "chart copied")
		}
	case "u":
		url := m.api.MetricsExportURL(m.metrics.Filter())
		return m, copyToClipboardCmd(url, "export link copied")
	}
	return m, nil
}

// savePolicy parses the edited buffer first; the request is only issued when
// the document is syntactically valid.
func (m *Model) savePolicy() tea.Cmd {
	policy, err := m.policy.EditedPolicy()
	if err != nil {
		m.policy.SetParseError(err)
		return nil
	}
	m.policy.SetParseError(nil)
	m.policy.SetSaving(true)
	return savePolicyCmd(m.api, policy)
}

func (m *Model) chartSnapshotWidth() int {
	return max(40, m.contentWidth())
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width - 2
}

func (m *Model) View() string {
	width := m.contentWidth()
	var sections []string

	sections = append(sections, m.tabBar())
	if m.backendDown {
		sections = append(sections, bannerStyle.Render(truncateToWidth("⚠ backend unreachable, data may be stale", width)))
	}

	switch m.activeTab {
	case tabDecisions:
		sections = append(sections, m.decisions.View(width))
	case tabPolicy:
		sections = append(sections, m.policy.View(width))
	case tabMetrics:
		sections = append(sections, m.metrics.View(width))
	}

	if toast := m.toastLine(width); toast != "" {
		sections = append(sections, toast)
	}
	sections = append(sections, helpStyle.Render(truncateToWidth(m.helpLine(), width)))
	return strings.Join(sections, "\n")
}

func (m *Model) tabBar() string {
	parts := make([]string, 0, len(tabTitles)+1)
	parts = append(parts, headerStyle.Render("oversee"))
	for i, title := range tabTitles {
		style := tabStyle
		if tab(i) == m.activeTab {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", i+1, title)))
	}
	if m.decisions.phase == decisionPhaseFetching {
		parts = append(parts, " "+m.loading.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) helpLine() string {
	switch m.activeTab {
	case tabDecisions:
		return "j/k select · h/l action · enter confirm · r refresh · e export csv · y copy link · q quit"
	case tabPolicy:
		if m.policy.Editing() {
			return "esc stop editing · ctrl+s save"
		}
		return "enter edit · ctrl+s save · ctrl+r reload · q quit"
	case tabMetrics:
		return "a agent · d days · h/l chart · s snapshot · y copy chart · e export csv · q quit"
	}
	return "q quit"
}
