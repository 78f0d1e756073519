// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package check

import (
	"github.com/Azure/foundrylib/cmd/foundrytool/command/deploy"
	"github.com/spf13/cobra"
)

// CheckCmd represents the check command.
var CheckCmd = cobra.Command{
	Use:   "check [flags]",
	Short: "Check a topology library or a deployment target.",
	Long:  `Check the validity of a topology library, preflight a target subscription before deploying, or verify a deployed topology afterwards.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.PrintErrf("%s check command: missing required child command\n", cmd.ErrPrefix())
		cmd.Usage() // nolint: errcheck
	},
}

func init() {
	CheckCmd.AddCommand(&libraryCmd)
	CheckCmd.AddCommand(&deployCmd)
	CheckCmd.AddCommand(&deploy.PostDeployCmd)
}
