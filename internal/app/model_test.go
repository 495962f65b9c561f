package app

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"oversee/internal/config"
	"oversee/internal/logging"
	"oversee/internal/types"
)

func newTestModel(t *testing.T, fake *fakeAPI) *Model {
	t.Helper()
	return NewModel(fake, config.Settings{}, t.TempDir(), logging.Nop())
}

// runCmd executes a command synchronously, expanding batches, and returns the
// produced messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, sub := range batch {
			out = append(out, runCmd(sub)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func loadDecisions(t *testing.T, m *Model, decisions ...*types.Decision) {
	t.Helper()
	seq := m.decisions.BeginFetch()
	if !m.decisions.Apply(decisionsMsg{seq: seq, decisions: decisions}) {
		t.Fatal("decision load not applied")
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApproveIssuesOneRequestThenRefetches(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)
	loadDecisions(t, m, sampleDecision())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := runCmd(cmd)
	if len(fake.approveCalls) != 1 || fake.approveCalls[0] != "dec-1:api" {
		t.Fatalf("unexpected approve calls: %v", fake.approveCalls)
	}
	if fake.pendingCalls != 0 {
		t.Fatalf("refetch before approve result: %d", fake.pendingCalls)
	}

	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	_, cmd = m.Update(msgs[0])
	runCmd(cmd)
	if fake.pendingCalls != 1 {
		t.Fatalf("expected exactly one refetch after approval, got %d", fake.pendingCalls)
	}
}

func TestOverrideSendsChosenTool(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)
	loadDecisions(t, m, sampleDecision())

	m.Update(keyRunes("l"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(cmd)
	if len(fake.approveCalls) != 1 || fake.approveCalls[0] != "dec-1:rpa" {
		t.Fatalf("unexpected approve calls: %v", fake.approveCalls)
	}
}

func TestInvalidPolicyNeverReachesBackend(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)
	m.activeTab = tabPolicy

	seq := m.policy.BeginFetch()
	m.policy.ApplyPolicy(policyMsg{seq: seq, policy: types.Policy{"mode": "strict"}})
	m.policy.editor.SetValue("mode: [unclosed\n")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("expected no command for an invalid document")
	}
	if fake.saveCalls != 0 {
		t.Fatalf("invalid document reached the backend: %d calls", fake.saveCalls)
	}
	if m.policy.ParseError() == "" {
		t.Fatal("expected visible parse error")
	}
	if !strings.Contains(xansi.Strip(m.View()), "does not parse") {
		t.Fatal("parse error not rendered")
	}
}

func TestValidPolicySaveThenHistoryRefetch(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)
	m.activeTab = tabPolicy

	seq := m.policy.BeginFetch()
	m.policy.ApplyPolicy(policyMsg{seq: seq, policy: types.Policy{"mode": "strict"}})
	m.policy.editor.SetValue("mode: manual\n")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	msgs := runCmd(cmd)
	if fake.saveCalls != 1 {
		t.Fatalf("expected one save call, got %d", fake.saveCalls)
	}

	for _, msg := range msgs {
		_, cmd = m.Update(msg)
		runCmd(cmd)
	}
	if fake.policyCalls != 1 || fake.historyCalls != 1 {
		t.Fatalf("expected policy and history refetch after save, got %d/%d", fake.policyCalls, fake.historyCalls)
	}
}

func TestBannerShowsAndClears(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)
	m.statusSeq = 1

	m.Update(dbStatusMsg{seq: 1, err: errors.New("connection refused")})
	if !strings.Contains(xansi.Strip(m.View()), "backend unreachable") {
		t.Fatal("expected connectivity banner")
	}

	m.Update(dbStatusMsg{seq: 1, status: &types.DBStatus{Available: true}})
	if strings.Contains(xansi.Strip(m.View()), "backend unreachable") {
		t.Fatal("banner not cleared after recovery")
	}
}

func TestBannerIgnoresStaleStatus(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)
	m.statusSeq = 2
	m.backendDown = false

	m.Update(dbStatusMsg{seq: 1, err: errors.New("old probe")})
	if m.backendDown {
		t.Fatal("stale probe result changed connectivity state")
	}
}

func TestTabSwitching(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)

	if m.activeTab != tabDecisions {
		t.Fatalf("expected decisions tab at startup, got %d", m.activeTab)
	}
	m.Update(keyRunes("3"))
	if m.activeTab != tabMetrics {
		t.Fatalf("expected metrics tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != tabDecisions {
		t.Fatalf("expected wrap to decisions tab, got %d", m.activeTab)
	}
}

func TestAgentCycleTriggersRefetchWithNewFilter(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)
	loadDecisions(t, m,
		&types.Decision{ID: "1", Agent: "invoice-bot", Tools: []string{"api"}},
	)
	m.activeTab = tabMetrics

	_, cmd := m.Update(keyRunes("a"))
	runCmd(cmd)
	if len(fake.trendsCalls) != 1 {
		t.Fatalf("expected one trends request, got %d", len(fake.trendsCalls))
	}
	if fake.trendsCalls[0].Agent != "invoice-bot" {
		t.Fatalf("request used old filter: %+v", fake.trendsCalls[0])
	}
}

func TestExportToastReportsPath(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)

	m.Update(exportDoneMsg{path: "/tmp/exports/metrics.csv", bytes: 42})
	if !strings.Contains(xansi.Strip(m.View()), "/tmp/exports/metrics.csv") {
		t.Fatal("expected export toast with path")
	}
}

func TestQuitKeys(t *testing.T) {
	fake := &fakeAPI{}
	m := newTestModel(t, fake)

	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected QuitMsg")
	}
}
