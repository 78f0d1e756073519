// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/query/azquery"
	"github.com/Azure/foundrylib/pkg/to"
	"go.uber.org/zap"
)

// Token usage queries follow the AI gateway FinOps pattern: the LLM header
// logs carry token counts, joined to the gateway logs for the consumer's
// subscription id.
const (
	kqlTopConsumers = `let llmHeaderLogs = ApiManagementGatewayLlmLog
| where DeploymentName != ''
| where TimeGenerated >= ago(%dd);
llmHeaderLogs
| join kind=leftouter ApiManagementGatewayLogs on CorrelationId
| summarize TotalTokens = sum(TotalTokens), RequestCount = count() by SubscriptionId = ApimSubscriptionId
| top %d by TotalTokens desc`

	kqlDailyUsage = `let llmHeaderLogs = ApiManagementGatewayLlmLog
| where DeploymentName != ''
| where TimeGenerated >= datetime(%s) and TimeGenerated < datetime(%s);
let llmLogsWithSubscriptionId = llmHeaderLogs
| join kind=leftouter ApiManagementGatewayLogs on CorrelationId
| project
    TimeGenerated,
    SubscriptionId = ApimSubscriptionId,
    DeploymentName,
    PromptTokens,
    CompletionTokens,
    TotalTokens;
llmLogsWithSubscriptionId
%s| summarize
    SumPromptTokens = sum(PromptTokens),
    SumCompletionTokens = sum(CompletionTokens),
    SumTotalTokens = sum(TotalTokens),
    RequestCount = count()
by bin(TimeGenerated, 1d), SubscriptionId
| order by TimeGenerated asc`
)

// ConsumerUsage is the aggregate token consumption of one subscription.
type ConsumerUsage struct {
	SubscriptionID string
	TotalTokens    int64
	RequestCount   int64
}

// DailyUsage is the token consumption of one subscription on one day.
type DailyUsage struct {
	Day              time.Time
	SubscriptionID   string
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	RequestCount     int64
}

// UsageReporter queries token consumption from the gateway's Log Analytics
// workspace. Do not create this struct directly, use NewUsageReporter instead.
type UsageReporter struct {
	logs        *azquery.LogsClient
	workspaceID string
	log         *zap.Logger
}

// UsageReporterOptions are the options for NewUsageReporter.
// A nil options struct selects the defaults.
type UsageReporterOptions struct {
	ClientOptions *azquery.LogsClientOptions
	Logger        *zap.Logger
}

// NewUsageReporter creates a new UsageReporter for the given workspace.
func NewUsageReporter(workspaceID string, cred azcore.TokenCredential, opts *UsageReporterOptions) (*UsageReporter, error) {
	if opts == nil {
		opts = new(UsageReporterOptions)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	logs, err := azquery.NewLogsClient(cred, opts.ClientOptions)
	if err != nil {
		return nil, fmt.Errorf("gateway.NewUsageReporter: %w", err)
	}
	return &UsageReporter{
		logs:        logs,
		workspaceID: workspaceID,
		log:         log,
	}, nil
}

// TopConsumers returns the subscriptions with the highest token consumption
// over the trailing number of days.
func (r *UsageReporter) TopConsumers(ctx context.Context, days, limit int) ([]ConsumerUsage, error) {
	rows, err := r.query(ctx, topConsumersQuery(days, limit), time.Duration(days+1)*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("UsageReporter.TopConsumers: %w", err)
	}
	res := make([]ConsumerUsage, 0, len(rows))
	for _, row := range rows {
		res = append(res, ConsumerUsage{
			SubscriptionID: stringCell(row, "SubscriptionId"),
			TotalTokens:    intCell(row, "TotalTokens"),
			RequestCount:   intCell(row, "RequestCount"),
		})
	}
	return res, nil
}

// Daily returns per-day token consumption between start and end (inclusive).
// An empty subscriptionID reports all subscriptions.
func (r *UsageReporter) Daily(ctx context.Context, subscriptionID string, start, end time.Time) ([]DailyUsage, error) {
	rows, err := r.query(ctx, dailyUsageQuery(subscriptionID, start, end), end.Sub(start)+48*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("UsageReporter.Daily: %w", err)
	}
	res := make([]DailyUsage, 0, len(rows))
	for _, row := range rows {
		du := DailyUsage{
			SubscriptionID:   stringCell(row, "SubscriptionId"),
			PromptTokens:     intCell(row, "SumPromptTokens"),
			CompletionTokens: intCell(row, "SumCompletionTokens"),
			TotalTokens:      intCell(row, "SumTotalTokens"),
			RequestCount:     intCell(row, "RequestCount"),
		}
		if ts, ok := row["TimeGenerated"].(time.Time); ok {
			du.Day = ts
		} else if s, ok := row["TimeGenerated"].(string); ok {
			if ts, err := time.Parse(time.RFC3339, s); err == nil {
				du.Day = ts
			}
		}
		res = append(res, du)
	}
	return res, nil
}

func (r *UsageReporter) query(ctx context.Context, query string, timespan time.Duration) ([]map[string]any, error) {
	interval := azquery.NewTimeInterval(time.Now().Add(-timespan), time.Now())
	resp, err := r.logs.QueryWorkspace(ctx, r.workspaceID, azquery.Body{
		Query:    to.Ptr(query),
		Timespan: to.Ptr(interval),
	}, nil)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		r.log.Warn("partial query results", zap.String("error", resp.Error.Error()))
	}
	return decodeTables(resp.Tables), nil
}

// decodeTables flattens query result tables into name -> value rows.
func decodeTables(tables []*azquery.Table) []map[string]any {
	res := make([]map[string]any, 0)
	for _, table := range tables {
		if table == nil {
			continue
		}
		names := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			if col != nil {
				names[i] = to.ValOrZero(col.Name)
			}
		}
		for _, row := range table.Rows {
			m := make(map[string]any, len(names))
			for i, cell := range row {
				if i < len(names) && names[i] != "" {
					m[names[i]] = cell
				}
			}
			res = append(res, m)
		}
	}
	return res
}

func topConsumersQuery(days, limit int) string {
	return fmt.Sprintf(kqlTopConsumers, days, limit)
}

func dailyUsageQuery(subscriptionID string, start, end time.Time) string {
	subFilter := ""
	if subscriptionID != "" {
		subFilter = fmt.Sprintf("| where SubscriptionId == '%s'\n", subscriptionID)
	}
	endNext := end.AddDate(0, 0, 1)
	return fmt.Sprintf(kqlDailyUsage,
		start.Format("2006-01-02"),
		endNext.Format("2006-01-02"),
		subFilter,
	)
}

func stringCell(row map[string]any, name string) string {
	if s, ok := row[name].(string); ok {
		return s
	}
	return ""
}

func intCell(row map[string]any, name string) int64 {
	switch v := row[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
