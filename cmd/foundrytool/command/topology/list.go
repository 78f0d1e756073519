// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package topology

import (
	"io/fs"
	"os"

	"github.com/Azure/foundrylib"
	"github.com/spf13/cobra"
)

var listCmd = cobra.Command{
	Use:   "list [flags]",
	Short: "List the topologies of a library.",
	Long:  `List the topologies of a library with their scope and network mode.`,
	Run: func(cmd *cobra.Command, args []string) {
		fl, err := initLibrary(cmd)
		if err != nil {
			cmd.PrintErrf("%s topology list error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		for _, name := range fl.TopologyNames() {
			topo := fl.Topology(name)
			cmd.Printf("%s\tscope=%s\tnetwork=%s\tstages=%d\n", name, topo.Scope, topo.Network, len(topo.Stages))
		}
	},
}

// initLibrary loads the library named by the persistent --library flag,
// falling back to the embedded library.
func initLibrary(cmd *cobra.Command) (*foundrylib.FoundryLib, error) {
	var lfs fs.FS
	path, _ := cmd.Flags().GetString("library") // nolint: errcheck
	if path != "" {
		lfs = os.DirFS(path)
	} else {
		lfs = foundrylib.EmbeddedLibrary()
	}
	fl := foundrylib.NewFoundryLib(nil)
	if err := fl.Init(cmd.Context(), lfs); err != nil {
		return nil, err
	}
	return fl, nil
}
