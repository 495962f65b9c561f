package app

import (
	"context"
	"fmt"
	"io"

	"oversee/internal/client"
	"oversee/internal/types"
)

// fakeAPI records every backend call so tests can assert on request counts.
type fakeAPI struct {
	decisions []*types.Decision
	policy    types.Policy
	history   []types.PolicyHistoryEntry
	snapshot  types.MetricsSnapshot
	points    []types.TrendPoint
	status    types.DBStatus

	pendingCalls int
	approveCalls []string
	policyCalls  int
	saveCalls    int
	historyCalls int
	liveCalls    int
	trendsCalls  []types.TrendFilter
	statusCalls  int
	exportCalls  int
}

func (f *fakeAPI) PendingDecisions(ctx context.Context) ([]*types.Decision, error) {
	f.pendingCalls++
	return f.decisions, nil
}

func (f *fakeAPI) ApproveDecision(ctx context.Context, id, choice string) (*client.ApproveResponse, error) {
	f.approveCalls = append(f.approveCalls, fmt.Sprintf("%s:%s", id, choice))
	return &client.ApproveResponse{Status: "ok", Choice: choice}, nil
}

func (f *fakeAPI) ExportDecisions(ctx context.Context, filter types.ExportFilter, w io.Writer) (int64, error) {
	f.exportCalls++
	n, err := io.WriteString(w, "id,agent\n")
	return int64(n), err
}

func (f *fakeAPI) DecisionsExportURL(filter types.ExportFilter) string {
	return "http://backend.test/decisions/export"
}

func (f *fakeAPI) Policy(ctx context.Context) (types.Policy, error) {
	f.policyCalls++
	return f.policy, nil
}

func (f *fakeAPI) SavePolicy(ctx context.Context, policy types.Policy) (*client.SavePolicyResponse, error) {
	f.saveCalls++
	return &client.SavePolicyResponse{Status: "ok"}, nil
}

func (f *fakeAPI) PolicyHistory(ctx context.Context) ([]types.PolicyHistoryEntry, error) {
	f.historyCalls++
	return f.history, nil
}

func (f *fakeAPI) LiveMetrics(ctx context.Context) (*types.MetricsSnapshot, error) {
	f.liveCalls++
	snapshot := f.snapshot
	return &snapshot, nil
}

func (f *fakeAPI) Trends(ctx context.Context, filter types.TrendFilter) ([]types.TrendPoint, error) {
	f.trendsCalls = append(f.trendsCalls, filter)
	return f.points, nil
}

func (f *fakeAPI) ExportMetricsCSV(ctx context.Context, filter types.TrendFilter, w io.Writer) (int64, error) {
	f.exportCalls++
	n, err := io.WriteString(w, "hour,success_rate\n")
	return int64(n), err
}

func (f *fakeAPI) MetricsExportURL(filter types.TrendFilter) string {
	return "http://backend.test/metrics/export"
}

func (f *fakeAPI) DBStatus(ctx context.Context) (*types.DBStatus, error) {
	f.statusCalls++
	status := f.status
	return &status, nil
}
