// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package gateway

import (
	"time"

	"github.com/Azure/foundrylib/internal/auth"
	"github.com/Azure/foundrylib/pkg/gateway"
	"github.com/spf13/cobra"
)

var usageCmd = cobra.Command{
	Use:   "usage [flags]",
	Short: "Report token usage from the gateway's Log Analytics workspace.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.PrintErrf("%s usage command: missing required child command\n", cmd.ErrPrefix())
		cmd.Usage() // nolint: errcheck
	},
}

var usageTopCmd = cobra.Command{
	Use:   "top [flags]",
	Short: "Show the subscriptions with the highest token consumption.",
	Run: func(cmd *cobra.Command, args []string) {
		reporter, err := newUsageReporter(cmd)
		if err != nil {
			exitErr(cmd, "usage top", err)
		}
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("limit")
		consumers, err := reporter.TopConsumers(cmd.Context(), days, limit)
		if err != nil {
			exitErr(cmd, "usage top", err)
		}
		for _, c := range consumers {
			cmd.Printf("%s\ttokens=%d\trequests=%d\n", c.SubscriptionID, c.TotalTokens, c.RequestCount)
		}
	},
}

var usageDailyCmd = cobra.Command{
	Use:   "daily [flags]",
	Short: "Show per-day token consumption.",
	Run: func(cmd *cobra.Command, args []string) {
		reporter, err := newUsageReporter(cmd)
		if err != nil {
			exitErr(cmd, "usage daily", err)
		}
		days, _ := cmd.Flags().GetInt("days")
		sid, _ := cmd.Flags().GetString("sid")
		end := time.Now()
		start := end.AddDate(0, 0, -days)
		usage, err := reporter.Daily(cmd.Context(), sid, start, end)
		if err != nil {
			exitErr(cmd, "usage daily", err)
		}
		for _, d := range usage {
			cmd.Printf("%s\t%s\tprompt=%d\tcompletion=%d\ttotal=%d\trequests=%d\n",
				d.Day.Format("2006-01-02"), d.SubscriptionID, d.PromptTokens, d.CompletionTokens, d.TotalTokens, d.RequestCount)
		}
	},
}

func newUsageReporter(cmd *cobra.Command) (*gateway.UsageReporter, error) {
	workspace, _ := cmd.Flags().GetString("workspace-id")
	cred, err := auth.NewToken()
	if err != nil {
		return nil, err
	}
	return gateway.NewUsageReporter(workspace, cred, nil)
}

func init() {
	usageCmd.AddCommand(&usageTopCmd)
	usageCmd.AddCommand(&usageDailyCmd)
	usageCmd.PersistentFlags().String("workspace-id", "", "Log Analytics workspace id of the gateway.")
	usageTopCmd.Flags().Int("days", 30, "Trailing window in days.")
	usageTopCmd.Flags().Int("limit", 10, "Number of subscriptions to show.")
	usageDailyCmd.Flags().Int("days", 30, "Trailing window in days.")
	usageDailyCmd.Flags().String("sid", "", "Restrict to one subscription id.")
}
