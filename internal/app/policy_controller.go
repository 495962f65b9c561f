package app

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"oversee/internal/types"
)

const policyIndent = 2

// PolicyController loads the policy document into an editable text buffer,
// guards the save path behind a parse, and renders the change history. A
// syntactically invalid edit never leaves the client.
type PolicyController struct {
	editor     textarea.Model
	loaded     bool
	loadErr    string
	parseErr   string
	saving     bool
	seq        int
	history    []types.PolicyHistoryEntry
	historyErr string
	historySeq int
}

func NewPolicyController(width, height int) *PolicyController {
	editor := textarea.New()
	editor.Placeholder = "policy not loaded"
	editor.CharLimit = 0
	editor.SetWidth(width)
	editor.SetHeight(height)
	return &PolicyController{editor: editor}
}

func (c *PolicyController) Resize(width, height int) {
	c.editor.SetWidth(width)
	c.editor.SetHeight(max(3, height))
}

func (c *PolicyController) BeginFetch() int {
	c.seq++
	return c.seq
}

// ApplyPolicy loads the fetched document into the editor as pretty-printed
// YAML. Stale responses are discarded so a slow initial load cannot clobber
// an in-progress edit after a reload.
func (c *PolicyController) ApplyPolicy(msg policyMsg) bool {
	if msg.seq != c.seq {
		return false
	}
	if msg.err != nil {
		c.loadErr = msg.err.Error()
		return true
	}
	text, err := marshalPolicy(msg.policy)
	if err != nil {
		c.loadErr = err.Error()
		return true
	}
	c.loaded = true
	c.loadErr = ""
	c.parseErr = ""
	c.editor.SetValue(text)
	return true
}

func (c *PolicyController) BeginHistoryFetch() int {
	c.historySeq++
	return c.historySeq
}

func (c *PolicyController) ApplyHistory(msg policyHistoryMsg) bool {
	if msg.seq != c.historySeq {
		return false
	}
	if msg.err != nil {
		c.historyErr = msg.err.Error()
		return true
	}
	c.historyErr = ""
	c.history = msg.entries
	return true
}

// EditedPolicy parses the editor buffer. A parse failure is user input error:
// it is surfaced inline and the save request is never issued.
func (c *PolicyController) EditedPolicy() (types.Policy, error) {
	var policy types.Policy
	if err := yaml.Unmarshal([]byte(c.editor.Value()), &policy); err != nil {
		return nil, fmt.Errorf("policy does not parse: %w", err)
	}
	if policy == nil {
		policy = types.Policy{}
	}
	return policy, nil
}

func (c *PolicyController) SetParseError(err error) {
	if err == nil {
		c.parseErr = ""
		return
	}
	c.parseErr = err.Error()
}

func (c *PolicyController) ParseError() string {
	return c.parseErr
}

func (c *PolicyController) SetSaving(saving bool) {
	c.saving = saving
}

func (c *PolicyController) Editing() bool {
	return c.editor.Focused()
}

func (c *PolicyController) FocusEditor() tea.Cmd {
	return c.editor.Focus()
}

func (c *PolicyController) BlurEditor() {
	c.editor.Blur()
}

func (c *PolicyController) UpdateEditor(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.editor, cmd = c.editor.Update(msg)
	return cmd
}

func (c *PolicyController) History() []types.PolicyHistoryEntry {
	return c.history
}

func (c *PolicyController) View(width int) string {
	var sections []string

	switch {
	case c.loadErr != "":
		sections = append(sections, unavailableStyle.Render("policy unavailable: "+c.loadErr))
	case !c.loaded:
		sections = append(sections, emptyStyle.Render("loading policy…"))
	default:
		sections = append(sections, c.editor.View())
	}

	if c.parseErr != "" {
		sections = append(sections, inlineErrorStyle.Render("✗ "+truncateToWidth(c.parseErr, width)))
	}
	if c.saving {
		sections = append(sections, emptyStyle.Render("saving…"))
	}

	sections = append(sections, c.historyView(width))
	return strings.Join(sections, "\n")
}

// historyView renders the change log oldest-to-newest, exactly as delivered.
func (c *PolicyController) historyView(width int) string {
	lines := []string{cardHeaderStyle.Render("History")}
	switch {
	case c.historyErr != "":
		lines = append(lines, unavailableStyle.Render("history unavailable: "+c.historyErr))
	case len(c.history) == 0:
		lines = append(lines, emptyStyle.Render("no recorded changes"))
	default:
		for _, entry := range c.history {
			meta := fmt.Sprintf("%s  %s", historyUserStyle.Render(entry.User), cardMetaStyle.Render(entry.Timestamp))
			lines = append(lines, truncateToWidth(meta, width))
			for _, diffLine := range strings.Split(strings.TrimRight(entry.Diff, "\n"), "\n") {
				lines = append(lines, historyDiffStyle.Render(truncateToWidth("  "+diffLine, width)))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// marshalPolicy pretty-prints the document as YAML with two-space indent.
// yaml.v3 emits map keys in a deterministic order, so repeated loads of the
// same document produce identical text.
func marshalPolicy(policy types.Policy) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(policyIndent)
	if err := enc.Encode(policy); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
