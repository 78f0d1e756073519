// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deploy

import (
	"os"

	"github.com/spf13/cobra"
)

// OutputsCmd represents the outputs command.
var OutputsCmd = cobra.Command{
	Use:   "outputs [flags] topology",
	Short: "Read back the outputs of a previously deployed topology.",
	Long: `Read back the outputs of a previously deployed topology.

Outputs are re-read from ARM using the deterministic deployment names, so
the same topology, name prefix and scope flags must be supplied as at
deploy time.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan, err := buildPlan(cmd, args[0])
		if err != nil {
			cmd.PrintErrf("%s outputs error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		deployer, err := newDeployer(cmd)
		if err != nil {
			cmd.PrintErrf("%s outputs error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		stageOutputs, err := deployer.StageOutputs(cmd.Context(), plan)
		if err != nil {
			cmd.PrintErrf("%s outputs error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		if len(stageOutputs) == 0 {
			cmd.PrintErrf("%s outputs error: no deployments found, has the topology been deployed?\n", cmd.ErrPrefix())
			os.Exit(1)
		}
		outputs, err := plan.MapOutputs(stageOutputs)
		if err != nil {
			cmd.PrintErrf("%s outputs error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		if err := printOutputs(cmd, outputs); err != nil {
			cmd.PrintErrf("%s outputs error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
	},
}
