// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package command

import (
	"context"
	"os"

	"github.com/Azure/foundrylib/cmd/foundrytool/command/check"
	"github.com/Azure/foundrylib/cmd/foundrytool/command/deploy"
	"github.com/Azure/foundrylib/cmd/foundrytool/command/document"
	"github.com/Azure/foundrylib/cmd/foundrytool/command/gateway"
	"github.com/Azure/foundrylib/cmd/foundrytool/command/topology"
	"github.com/spf13/cobra"
)

var version = "dev"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "foundrytool",
	Version: version,
	Short:   "A cli tool for working with AI Foundry topology libraries",
	Long: `A cli tool for working with AI Foundry topology libraries.

This tool can:

- List and inspect the deployment topologies of a library.
- Check the validity of a library and preflight a target subscription.
- Plan (what-if), deploy and read back the outputs of a topology.
- Manage AI gateway subscriptions and report token usage.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(&topology.TopologyCmd)
	rootCmd.AddCommand(&check.CheckCmd)
	rootCmd.AddCommand(&deploy.PlanCmd)
	rootCmd.AddCommand(&deploy.DeployCmd)
	rootCmd.AddCommand(&deploy.OutputsCmd)
	rootCmd.AddCommand(&document.DocumentCmd)
	rootCmd.AddCommand(&gateway.GatewayCmd)
}
