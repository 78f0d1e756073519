// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package check

import (
	"os"

	"github.com/Azure/foundrylib"
	"github.com/Azure/foundrylib/internal/tools/checker"
	"github.com/Azure/foundrylib/internal/tools/checks"
	"github.com/spf13/cobra"
)

var libraryCmd = cobra.Command{
	Use:   "library [flags] dir",
	Short: "Check the validity of a topology library.",
	Long: `Check the validity of a topology library:
topologies are internally consistent, stage parameter bindings resolve,
templates are valid ARM documents and default value assignments resolve.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fl := foundrylib.NewFoundryLib(nil)
		dirFs := os.DirFS(args[0])
		if err := fl.Init(cmd.Context(), dirFs); err != nil {
			cmd.PrintErrf("%s library check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}

		chk := checker.NewValidator(
			checks.CheckAllTopologies(fl),
			checks.CheckAllTemplates(fl),
			checks.CheckDefaults(fl),
		).WithOutput(cmd.OutOrStdout())
		if err := chk.Validate(); err != nil {
			cmd.PrintErrf("%s library check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
	},
}
