package app

import (
	"fmt"
	"strings"

	"oversee/internal/types"
)

type decisionPhase int

const (
	decisionPhaseIdle decisionPhase = iota
	decisionPhaseFetching
	decisionPhaseReady
	decisionPhaseFailed
)

// DecisionQueueController owns the pending-decision queue: fetch state, the
// rendered cards, and the approve/override cursor. Each poll replaces the
// queue wholesale; there is no incremental diffing.
type DecisionQueueController struct {
	phase     decisionPhase
	decisions []*types.Decision
	fetchErr  string
	seq       int
	cursor    int
	action    int
	export    types.ExportFilter
}

func NewDecisionQueueController() *DecisionQueueController {
	return &DecisionQueueController{
		export: types.ExportFilter{Agent: types.AgentAll, Status: "pending", Days: 7, Format: "csv"},
	}
}

// BeginFetch bumps the request sequence and returns it. Responses tagged with
// an older seq are discarded by Apply.
func (c *DecisionQueueController) BeginFetch() int {
	c.seq++
	if c.phase == decisionPhaseIdle {
		c.phase = decisionPhaseFetching
	}
	return c.seq
}

// Apply folds a poll result into the queue. It reports whether the message
// was current; stale responses are dropped without touching state.
func (c *DecisionQueueController) Apply(msg decisionsMsg) bool {
	if msg.seq != c.seq {
		return false
	}
	if msg.err != nil {
		c.phase = decisionPhaseFailed
		c.fetchErr = msg.err.Error()
		return true
	}
	c.phase = decisionPhaseReady
	c.fetchErr = ""
	c.decisions = msg.decisions
	c.clampCursor()
	return true
}

func (c *DecisionQueueController) Decisions() []*types.Decision {
	return c.decisions
}

func (c *DecisionQueueController) Failed() bool {
	return c.phase == decisionPhaseFailed
}

func (c *DecisionQueueController) ExportFilter() types.ExportFilter {
	return c.export
}

func (c *DecisionQueueController) MoveCursor(delta int) {
	c.cursor += delta
	c.clampCursor()
}

func (c *DecisionQueueController) MoveAction(delta int) {
	c.action += delta
	c.clampCursor()
}

func (c *DecisionQueueController) SelectedDecision() *types.Decision {
	if c.cursor < 0 || c.cursor >= len(c.decisions) {
		return nil
	}
	return c.decisions[c.cursor]
}

// SelectedAction resolves the highlighted control to an (id, choice) pair:
// action 0 approves the recommendation, action k>0 overrides with the k-th
// remaining tool in backend order.
func (c *DecisionQueueController) SelectedAction() (id, choice string, ok bool) {
	decision := c.SelectedDecision()
	if decision == nil {
		return "", "", false
	}
	if c.action == 0 {
		return decision.ID, decision.Recommendation, true
	}
	overrides := decision.OverrideTools()
	if c.action-1 < len(overrides) {
		return decision.ID, overrides[c.action-1], true
	}
	return "", "", false
}

// Agents returns the distinct agents present in the queue, in first-seen
// order.
func (c *DecisionQueueController) Agents() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, decision := range c.decisions {
		if decision == nil || decision.Agent == "" {
			continue
		}
		if _, ok := seen[decision.Agent]; ok {
			continue
		}
		seen[decision.Agent] = struct{}{}
		out = append(out, decision.Agent)
	}
	return out
}

func (c *DecisionQueueController) clampCursor() {
	if c.cursor >= len(c.decisions) {
		c.cursor = len(c.decisions) - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
	decision := c.SelectedDecision()
	if decision == nil {
		c.action = 0
		return
	}
	maxAction := len(decision.OverrideTools())
	if c.action > maxAction {
		c.action = maxAction
	}
	if c.action < 0 {
		c.action = 0
	}
}

func (c *DecisionQueueController) View(width int) string {
	switch c.phase {
	case decisionPhaseIdle, decisionPhaseFetching:
		return emptyStyle.Render("loading decisions…")
	case decisionPhaseFailed:
		return unavailableStyle.Render("decision queue unavailable: " + c.fetchErr)
	}
	if len(c.decisions) == 0 {
		return emptyStyle.Render("no pending decisions")
	}

	var blocks []string
	for i, decision := range c.decisions {
		blocks = append(blocks, c.renderCard(decision, i == c.cursor, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (c *DecisionQueueController) renderCard(decision *types.Decision, selected bool, width int) string {
	header := fmt.Sprintf("%s · %s", decision.Agent, decision.Step)
	headerLine := cardHeaderStyle.Render(truncateToWidth(header, max(1, width-12))) +
		"  " + severityStyle(string(decision.Severity)).Render("["+string(decision.Severity)+"]")
	if selected {
		headerLine = selectedStyle.Render("▌") + " " + headerLine
	} else {
		headerLine = "  " + headerLine
	}

	lines := []string{
		headerLine,
		"  " + recommendStyle.Render("recommends "+decision.Recommendation),
	}
	for _, stat := range decision.Stats {
		entry := fmt.Sprintf("  %s  %s (%d/%d)  last used %s",
			padToWidth(stat.Tool, 14), formatRate(stat.SuccessRate), stat.Successes, stat.Total, formatLastUsed(stat.LastUsed))
		lines = append(lines, cardMetaStyle.Render(truncateToWidth(entry, width)))
	}
	lines = append(lines, "  "+c.renderActions(decision, selected, width))
	if selected {
		if _, choice, ok := c.SelectedAction(); ok {
			if text := decision.Explanation(choice); text != "" {
				lines = append(lines, renderMarkdown(text, max(20, width-4)))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// renderActions draws exactly one approve control plus one override control
// per non-recommended tool, preserving backend order.
func (c *DecisionQueueController) renderActions(decision *types.Decision, selected bool, width int) string {
	controls := []string{"approve " + decision.Recommendation}
	for _, tool := range decision.OverrideTools() {
		controls = append(controls, "override → "+tool)
	}

	parts := make([]string, len(controls))
	for i, control := range controls {
		label := "[" + control + "]"
		style := overrideButtonStyle
		if i == 0 {
			style = approveButtonStyle
		}
		if selected && i == c.action {
			label = selectedStyle.Render(label)
		} else {
			label = style.Render(label)
		}
		parts[i] = label
	}
	return truncateToWidth(strings.Join(parts, " "), width)
}
