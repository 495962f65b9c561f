package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"oversee/internal/charts"
	"oversee/internal/types"
)

func fetchDBStatusCmd(api StatusAPI, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		status, err := api.DBStatus(ctx)
		return dbStatusMsg{seq: seq, status: status, err: err}
	}
}

func fetchDecisionsCmd(api DecisionAPI, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		decisions, err := api.PendingDecisions(ctx)
		return decisionsMsg{seq: seq, decisions: decisions, err: err}
	}
}

func approveDecisionCmd(api DecisionAPI, id, choice string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		_, err := api.ApproveDecision(ctx, id, choice)
		return approveMsg{id: id, choice: choice, err: err}
	}
}

func fetchPolicyCmd(api PolicyAPI, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		policy, err := api.Policy(ctx)
		return policyMsg{seq: seq, policy: policy, err: err}
	}
}

func savePolicyCmd(api PolicyAPI, policy types.Policy) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		_, err := api.SavePolicy(ctx, policy)
		return policySavedMsg{err: err}
	}
}

func fetchPolicyHistoryCmd(api PolicyAPI, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		entries, err := api.PolicyHistory(ctx)
		return policyHistoryMsg{seq: seq, entries: entries, err: err}
	}
}

func fetchLiveMetricsCmd(api MetricsAPI, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		snapshot, err := api.LiveMetrics(ctx)
		return liveMetricsMsg{seq: seq, snapshot: snapshot, err: err}
	}
}

func fetchTrendsCmd(api MetricsAPI, filter types.TrendFilter, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		points, err := api.Trends(ctx, filter)
		return trendsMsg{seq: seq, filter: filter, points: points, err: err}
	}
}

func exportMetricsCmd(api MetricsAPI, filter types.TrendFilter, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		path, n, err := downloadToDir(dir, "metrics", func(f *os.File) (int64, error) {
			return api.ExportMetricsCSV(ctx, filter, f)
		})
		return exportDoneMsg{path: path, bytes: n, err: err}
	}
}

func exportDecisionsCmd(api DecisionAPI, filter types.ExportFilter, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		path, n, err := downloadToDir(dir, "decisions", func(f *os.File) (int64, error) {
			return api.ExportDecisions(ctx, filter, f)
		})
		return exportDoneMsg{path: path, bytes: n, err: err}
	}
}

func downloadToDir(dir, prefix string, write func(*os.File) (int64, error)) (string, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, err
	}
	name := prefix + "-" + time.Now().Format("20060102-150405") + ".csv"
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	n, err := write(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	return path, n, nil
}

func snapshotChartCmd(dir string, chart charts.Chart, width int) tea.Cmd {
	return func() tea.Msg {
		path, err := charts.WriteSnapshot(dir, chart, width, time.Now())
		return snapshotSavedMsg{path: path, err: err}
	}
}

func copyToClipboardCmd(text, success string) tea.Cmd {
	return func() tea.Msg {
		_, err := copyTextToClipboard(text)
		return clipboardResultMsg{success: success, err: err}
	}
}
