// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package gateway

import (
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/monitor/query/azquery"
	"github.com/Azure/foundrylib/pkg/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopConsumersQuery(t *testing.T) {
	q := topConsumersQuery(30, 5)
	assert.Contains(t, q, "ago(30d)")
	assert.Contains(t, q, "top 5 by TotalTokens desc")
	assert.Contains(t, q, "ApiManagementGatewayLlmLog")
	assert.Contains(t, q, "join kind=leftouter ApiManagementGatewayLogs on CorrelationId")
}

func TestDailyUsageQuery(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	q := dailyUsageQuery("", start, end)
	assert.Contains(t, q, "datetime(2025-06-01)")
	// end date is exclusive of the day after
	assert.Contains(t, q, "datetime(2025-07-01)")
	assert.NotContains(t, q, "where SubscriptionId ==")

	q = dailyUsageQuery("sub-001", start, end)
	assert.Contains(t, q, "| where SubscriptionId == 'sub-001'")
	assert.Contains(t, q, "bin(TimeGenerated, 1d)")
}

func TestDecodeTables(t *testing.T) {
	tables := []*azquery.Table{
		{
			Columns: []*azquery.Column{
				{Name: to.Ptr("SubscriptionId")},
				{Name: to.Ptr("TotalTokens")},
				{Name: to.Ptr("RequestCount")},
			},
			Rows: []azquery.Row{
				{"sub-001", float64(123456), float64(42)},
				{"sub-002", int64(99), int64(1)},
			},
		},
		nil,
	}
	rows := decodeTables(tables)
	require.Len(t, rows, 2)
	assert.Equal(t, "sub-001", stringCell(rows[0], "SubscriptionId"))
	assert.Equal(t, int64(123456), intCell(rows[0], "TotalTokens"))
	assert.Equal(t, int64(99), intCell(rows[1], "TotalTokens"))
	assert.Equal(t, int64(0), intCell(rows[1], "Missing"))
}
