// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deploy

import (
	"os"

	"github.com/spf13/cobra"
)

// PostDeployCmd represents the check post-deploy command. It lives in this
// package because it shares the plan flag surface with deploy and outputs.
var PostDeployCmd = cobra.Command{
	Use:   "post-deploy [flags] topology",
	Short: "Verify a deployed topology.",
	Long: `Verify a deployed topology.

Re-reads the stage deployments by their deterministic names, checks that
every output the topology declares was produced, and that validation flag
outputs (ARM type bool) report true. The same topology, name prefix and
scope flags must be supplied as at deploy time.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan, err := buildPlan(cmd, args[0])
		if err != nil {
			cmd.PrintErrf("%s post-deploy check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		deployer, err := newDeployer(cmd)
		if err != nil {
			cmd.PrintErrf("%s post-deploy check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		stageOutputs, err := deployer.StageOutputs(cmd.Context(), plan)
		if err != nil {
			cmd.PrintErrf("%s post-deploy check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		if len(stageOutputs) == 0 {
			cmd.PrintErrf("%s post-deploy check error: no deployments found, has the topology been deployed?\n", cmd.ErrPrefix())
			os.Exit(1)
		}
		outputs, err := plan.MapOutputs(stageOutputs)
		if err != nil {
			cmd.PrintErrf("%s post-deploy check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		if err := plan.VerifyOutputs(outputs); err != nil {
			cmd.PrintErrf("%s post-deploy check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		cmd.Printf("post-deploy verification passed for topology `%s` (%d stages, %d outputs)\n", args[0], len(plan.Stages), len(outputs))
	},
}
