// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package topology

import (
	"github.com/spf13/cobra"
)

// TopologyCmd represents the topology command.
var TopologyCmd = cobra.Command{
	Use:   "topology [flags]",
	Short: "Inspect the deployment topologies of a library.",
	Long:  `Inspect the deployment topologies of a library.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.PrintErrf("%s topology command: missing required child command\n", cmd.ErrPrefix())
		cmd.Usage() // nolint: errcheck
	},
}

func init() {
	TopologyCmd.AddCommand(&listCmd)
	TopologyCmd.AddCommand(&showCmd)
	TopologyCmd.PersistentFlags().String("library", "", "Path to a local topology library. The embedded library is used when not set.")
}
