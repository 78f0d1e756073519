// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package document

import (
	"github.com/spf13/cobra"
)

// DocumentCmd represents the document command.
var DocumentCmd = cobra.Command{
	Use:   "document [flags]",
	Short: "Generate documentation.",
	Long:  `Generate documentation for a topology library.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.PrintErrf("%s document command: missing required child command\n", cmd.ErrPrefix())
		cmd.Usage() // nolint: errcheck
	},
}

func init() {
	DocumentCmd.AddCommand(&documentLibraryBaseCmd)
}
