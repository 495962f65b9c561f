package app

import (
	"context"
	"io"

	"oversee/internal/client"
	"oversee/internal/types"
)

type DecisionAPI interface {
	PendingDecisions(ctx context.Context) ([]*types.Decision, error)
	ApproveDecision(ctx context.Context, id, choice string) (*client.ApproveResponse, error)
	ExportDecisions(ctx context.Context, filter types.ExportFilter, w io.Writer) (int64, error)
	DecisionsExportURL(filter types.ExportFilter) string
}

type PolicyAPI interface {
	Policy(ctx context.Context) (types.Policy, error)
	SavePolicy(ctx context.Context, policy types.Policy) (*client.SavePolicyResponse, error)
	PolicyHistory(ctx context.Context) ([]types.PolicyHistoryEntry, error)
}

type MetricsAPI interface {
	LiveMetrics(ctx context.Context) (*types.MetricsSnapshot, error)
	Trends(ctx context.Context, filter types.TrendFilter) ([]types.TrendPoint, error)
	ExportMetricsCSV(ctx context.Context, filter types.TrendFilter, w io.Writer) (int64, error)
	MetricsExportURL(filter types.TrendFilter) string
}

type StatusAPI interface {
	DBStatus(ctx context.Context) (*types.DBStatus, error)
}

type ClientAPI struct {
	client *client.Client
}

func NewClientAPI(client *client.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (a *ClientAPI) PendingDecisions(ctx context.Context) ([]*types.Decision, error) {
	return a.client.PendingDecisions(ctx)
}

func (a *ClientAPI) ApproveDecision(ctx context.Context, id, choice string) (*client.ApproveResponse, error) {
	return a.client.ApproveDecision(ctx, id, choice)
}

func (a *ClientAPI) ExportDecisions(ctx context.Context, filter types.ExportFilter, w io.Writer) (int64, error) {
	return a.client.ExportDecisions(ctx, filter, w)
}

func (a *ClientAPI) DecisionsExportURL(filter types.ExportFilter) string {
	return a.client.DecisionsExportURL(filter)
}

func (a *ClientAPI) Policy(ctx context.Context) (types.Policy, error) {
	return a.client.Policy(ctx)
}

func (a *ClientAPI) SavePolicy(ctx context.Context, policy types.Policy) (*client.SavePolicyResponse, error) {
	return a.client.SavePolicy(ctx, policy)
}

func (a *ClientAPI) PolicyHistory(ctx context.Context) ([]types.PolicyHistoryEntry, error) {
	return a.client.PolicyHistory(ctx)
}

func (a *ClientAPI) LiveMetrics(ctx context.Context) (*types.MetricsSnapshot, error) {
	return a.client.LiveMetrics(ctx)
}

func (a *ClientAPI) Trends(ctx context.Context, filter types.TrendFilter) ([]types.TrendPoint, error) {
	return a.client.Trends(ctx, filter)
}

func (a *ClientAPI) ExportMetricsCSV(ctx context.Context, filter types.TrendFilter, w io.Writer) (int64, error) {
	return a.client.ExportMetricsCSV(ctx, filter, w)
}

func (a *ClientAPI) MetricsExportURL(filter types.TrendFilter) string {
	return a.client.MetricsExportURL(filter)
}

func (a *ClientAPI) DBStatus(ctx context.Context) (*types.DBStatus, error) {
	return a.client.DBStatus(ctx)
}
