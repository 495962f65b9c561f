package app

import (
	"errors"
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"

	"oversee/internal/types"
)

func sampleDecision() *types.Decision {
	return &types.Decision{
		ID:             "dec-1",
		Agent:          "invoice-bot",
		Step:           "submit",
		Recommendation: "api",
		Severity:       types.SeverityHigh,
		Tools:          []string{"api", "rpa", "manual"},
		Stats: []types.ToolStat{
			{Tool: "api", Successes: 9, Total: 10, Failures: 1, SuccessRate: 0.9, LastUsed: "2026-08-22 10:00"},
			{Tool: "rpa", SuccessRate: 0},
		},
	}
}

func TestDecisionQueueDiscardsStaleResponses(t *testing.T) {
	controller := NewDecisionQueueController()

	stale := controller.BeginFetch()
	current := controller.BeginFetch()

	if controller.Apply(decisionsMsg{seq: stale, decisions: []*types.Decision{sampleDecision()}}) {
		t.Fatal("stale response must be discarded")
	}
	if len(controller.Decisions()) != 0 {
		t.Fatal("stale response mutated the queue")
	}

	if !controller.Apply(decisionsMsg{seq: current, decisions: []*types.Decision{sampleDecision()}}) {
		t.Fatal("current response must be applied")
	}
	if len(controller.Decisions()) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(controller.Decisions()))
	}
}

func TestDecisionQueueErrorThenRecovery(t *testing.T) {
	controller := NewDecisionQueueController()

	seq := controller.BeginFetch()
	controller.Apply(decisionsMsg{seq: seq, err: errors.New("connection refused")})
	if !controller.Failed() {
		t.Fatal("expected failed phase after error")
	}
	plain := xansi.Strip(controller.View(80))
	if !strings.Contains(plain, "unavailable") {
		t.Fatalf("expected unavailable notice:\n%s", plain)
	}

	seq = controller.BeginFetch()
	controller.Apply(decisionsMsg{seq: seq, decisions: nil})
	if controller.Failed() {
		t.Fatal("expected recovery after successful poll")
	}
	plain = xansi.Strip(controller.View(80))
	if !strings.Contains(plain, "no pending decisions") {
		t.Fatalf("expected empty placeholder:\n%s", plain)
	}
}

func TestSelectedActionMapsToApproveAndOverrides(t *testing.T) {
	controller := NewDecisionQueueController()
	seq := controller.BeginFetch()
	controller.Apply(decisionsMsg{seq: seq, decisions: []*types.Decision{sampleDecision()}})

	id, choice, ok := controller.SelectedAction()
	if !ok || id != "dec-1" || choice != "api" {
		t.Fatalf("expected approve recommendation, got %q %q %v", id, choice, ok)
	}

	controller.MoveAction(1)
	_, choice, _ = controller.SelectedAction()
	if choice != "rpa" {
		t.Fatalf("expected first override rpa, got %q", choice)
	}

	controller.MoveAction(1)
	_, choice, _ = controller.SelectedAction()
	if choice != "manual" {
		t.Fatalf("expected second override manual, got %q", choice)
	}

	// The action cursor clamps at the last override.
	controller.MoveAction(5)
	_, choice, _ = controller.SelectedAction()
	if choice != "manual" {
		t.Fatalf("expected clamp at manual, got %q", choice)
	}
}

func TestDecisionCardRendersOneApprovePerCard(t *testing.T) {
	controller := NewDecisionQueueController()
	seq := controller.BeginFetch()
	controller.Apply(decisionsMsg{seq: seq, decisions: []*types.Decision{sampleDecision()}})

	plain := xansi.Strip(controller.View(100))
	if got := strings.Count(plain, "[approve api]"); got != 1 {
		t.Fatalf("expected exactly one approve control, got %d:\n%s", got, plain)
	}
	if !strings.Contains(plain, "[override → rpa]") || !strings.Contains(plain, "[override → manual]") {
		t.Fatalf("missing override controls:\n%s", plain)
	}
	if !strings.Contains(plain, "invoice-bot · submit") {
		t.Fatalf("missing card header:\n%s", plain)
	}
	if !strings.Contains(plain, "[high]") {
		t.Fatalf("missing severity tag:\n%s", plain)
	}
	if !strings.Contains(plain, "90% (9/10)") {
		t.Fatalf("missing success rate:\n%s", plain)
	}
	if !strings.Contains(plain, "last used N/A") {
		t.Fatalf("missing never-used sentinel:\n%s", plain)
	}
}

func TestAgentsFirstSeenOrder(t *testing.T) {
	controller := NewDecisionQueueController()
	seq := controller.BeginFetch()
	controller.Apply(decisionsMsg{seq: seq, decisions: []*types.Decision{
		{ID: "1", Agent: "invoice-bot", Tools: []string{"api"}},
		{ID: "2", Agent: "refund-bot", Tools: []string{"api"}},
		{ID: "3", Agent: "invoice-bot", Tools: []string{"api"}},
	}})

	agents := controller.Agents()
	if len(agents) != 2 || agents[0] != "invoice-bot" || agents[1] != "refund-bot" {
		t.Fatalf("unexpected agents: %v", agents)
	}
}

func TestCursorClampsOnShrinkingQueue(t *testing.T) {
	controller := NewDecisionQueueController()
	seq := controller.BeginFetch()
	controller.Apply(decisionsMsg{seq: seq, decisions: []*types.Decision{
		sampleDecision(),
		{ID: "dec-2", Agent: "refund-bot", Recommendation: "rpa", Tools: []string{"rpa"}},
	}})
	controller.MoveCursor(1)
	if controller.SelectedDecision().ID != "dec-2" {
		t.Fatal("cursor did not move")
	}

	seq = controller.BeginFetch()
	controller.Apply(decisionsMsg{seq: seq, decisions: []*types.Decision{sampleDecision()}})
	if controller.SelectedDecision().ID != "dec-1" {
		t.Fatal("cursor did not clamp after queue shrank")
	}
}
