package types

// Policy is the backend's severity policy document. The client round-trips it
// through text for editing and never asserts a schema beyond well-formedness.
type Policy map[string]any

type PolicyHistoryEntry struct {
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
	Diff      string `json:"diff"`
}
