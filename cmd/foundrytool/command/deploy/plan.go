// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deploy

import (
	"os"

	"github.com/spf13/cobra"
)

// PlanCmd represents the plan command.
var PlanCmd = cobra.Command{
	Use:   "plan [flags] topology",
	Short: "Run ARM what-if for a topology and print the predicted changes.",
	Long: `Run ARM what-if for a topology and print the predicted changes.

Nothing is deployed. Bindings to outputs of not-yet-deployed stages fall
back to template defaults, so cross-stage predictions are approximate.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan, err := buildPlan(cmd, args[0])
		if err != nil {
			cmd.PrintErrf("%s plan error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		deployer, err := newDeployer(cmd)
		if err != nil {
			cmd.PrintErrf("%s plan error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		changes, err := deployer.WhatIf(cmd.Context(), plan)
		if err != nil {
			cmd.PrintErrf("%s plan error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		if len(changes) == 0 {
			cmd.Println("no changes")
			return
		}
		for _, c := range changes {
			cmd.Printf("%s\t%s\t%s\n", c.Stage, c.ChangeType, c.ResourceID)
		}
	},
}
