// Package charts is the visualization surface for the dashboard: a registry
// of named chart handles with get-or-create semantics. A handle is created at
// most once per id and mutated in place for the lifetime of the session;
// controllers replace its data arrays, never the handle itself.
package charts

type Chart interface {
	ID() string
	Render(width int) string
}

type Registry struct {
	charts map[string]Chart
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{charts: map[string]Chart{}}
}

// Doughnut returns the doughnut chart registered under id, creating it on
// first use. Later calls ignore title and labels and return the live handle.
func (r *Registry) Doughnut(id, title string, labels [2]string) *Doughnut {
	if existing, ok := r.charts[id].(*Doughnut); ok {
		return existing
	}
	chart := newDoughnut(id, title, labels)
	r.put(id, chart)
	return chart
}

// Line returns the line chart registered under id, creating it on first use.
// A bounded chart clamps its scale to 0..100.
func (r *Registry) Line(id, title string, bounded bool) *Line {
	if existing, ok := r.charts[id].(*Line); ok {
		return existing
	}
	chart := newLine(id, title, bounded)
	r.put(id, chart)
	return chart
}

func (r *Registry) Get(id string) (Chart, bool) {
	chart, ok := r.charts[id]
	return chart, ok
}

func (r *Registry) Len() int {
	return len(r.charts)
}

func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) put(id string, chart Chart) {
	if _, ok := r.charts[id]; !ok {
		r.order = append(r.order, id)
	}
	r.charts[id] = chart
}
