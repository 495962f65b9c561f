package app

import (
	"time"

	"oversee/internal/types"
)

// Result messages carry the request sequence number they were issued with.
// Controllers discard any response whose seq is not the latest they issued,
// so overlapping polls resolve deterministically: last issued wins.

type dbStatusMsg struct {
	seq    int
	status *types.DBStatus
	err    error
}

type decisionsMsg struct {
	seq       int
	decisions []*types.Decision
	err       error
}

type approveMsg struct {
	id     string
	choice string
	err    error
}

type policyMsg struct {
	seq    int
	policy types.Policy
	err    error
}

type policySavedMsg struct {
	err error
}

type policyHistoryMsg struct {
	seq     int
	entries []types.PolicyHistoryEntry
	err     error
}

type liveMetricsMsg struct {
	seq      int
	snapshot *types.MetricsSnapshot
	err      error
}

type trendsMsg struct {
	seq    int
	filter types.TrendFilter
	points []types.TrendPoint
	err    error
}

type exportDoneMsg struct {
	path  string
	bytes int64
	err   error
}

type snapshotSavedMsg struct {
	path string
	err  error
}

type clipboardResultMsg struct {
	success string
	err     error
}

type decisionsTickMsg time.Time

type liveMetricsTickMsg time.Time

type trendsTickMsg time.Time

type statusTickMsg time.Time
