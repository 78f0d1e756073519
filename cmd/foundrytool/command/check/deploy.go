// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package check

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Azure/foundrylib"
	"github.com/Azure/foundrylib/internal/auth"
	"github.com/Azure/foundrylib/pkg/preflight"
	"github.com/spf13/cobra"
)

var deployCmd = cobra.Command{
	Use:   "deploy [flags] topology",
	Short: "Preflight a subscription for a topology deployment.",
	Long: `Preflight a subscription for a topology deployment: subscription state,
region availability, resource provider registration, and optionally the
deploying identity's roles and the subscription's model quota.

Warnings do not fail the check, only failed checks set a non-zero exit code.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		libPath, _ := flags.GetString("library")
		subscription, _ := flags.GetString("subscription")
		location, _ := flags.GetString("location")
		principal, _ := flags.GetString("principal-id")
		models, _ := flags.GetStringSlice("model-usage")
		register, _ := flags.GetBool("register-providers")

		var lfs fs.FS = foundrylib.EmbeddedLibrary()
		if libPath != "" {
			lfs = os.DirFS(libPath)
		}
		fl := foundrylib.NewFoundryLib(nil)
		if err := fl.Init(cmd.Context(), lfs); err != nil {
			cmd.PrintErrf("%s deploy check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		topo := fl.Topology(args[0])
		if topo == nil {
			cmd.PrintErrf("%s deploy check error: topology `%s` not found, available: %s\n", cmd.ErrPrefix(), args[0], strings.Join(fl.TopologyNames(), ", "))
			os.Exit(1)
		}

		modelRequests, err := parseModelUsage(models)
		if err != nil {
			cmd.PrintErrf("%s deploy check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}

		cred, err := auth.NewToken()
		if err != nil {
			cmd.PrintErrf("%s deploy check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		chk := preflight.NewChecker(cred, nil)

		if register {
			if err := chk.RegisterProviders(cmd.Context(), subscription, topo); err != nil {
				cmd.PrintErrf("%s deploy check error: %v\n", cmd.ErrPrefix(), err)
				os.Exit(1)
			}
		}

		results, err := chk.Run(cmd.Context(), &preflight.Request{
			Topology:       topo,
			SubscriptionID: subscription,
			Location:       location,
			PrincipalID:    principal,
			ModelRequests:  modelRequests,
		})
		if err != nil {
			cmd.PrintErrf("%s deploy check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		for _, r := range results {
			cmd.Printf("%-7s %s: %s\n", r.Status, r.Name, r.Detail)
		}
		if preflight.Failed(results) {
			os.Exit(1)
		}
	},
}

// parseModelUsage converts repeated usageName=capacity flags.
func parseModelUsage(models []string) (map[string]float64, error) {
	if len(models) == 0 {
		return nil, nil
	}
	res := make(map[string]float64, len(models))
	for _, m := range models {
		name, raw, ok := strings.Cut(m, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --model-usage value `%s`, expected usageName=capacity", m)
		}
		capacity, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --model-usage capacity `%s`: %w", raw, err)
		}
		res[name] = capacity
	}
	return res, nil
}

func init() {
	deployCmd.Flags().String("library", "", "Path to a local topology library. The embedded library is used when not set.")
	deployCmd.Flags().String("subscription", "", "Target subscription id.")
	deployCmd.Flags().String("location", "", "Target location.")
	deployCmd.Flags().String("principal-id", "", "Object id of the deploying identity. Role checks are skipped when not set.")
	deployCmd.Flags().StringSlice("model-usage", nil, "Model usage to verify quota for, as usageName=capacity. Repeatable.")
	deployCmd.Flags().Bool("register-providers", false, "Submit registration requests for missing resource providers before checking.")
}
