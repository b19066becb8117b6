// Command vexpr renders filter expressions and runs them against a vector
// database.
//
//	vexpr render --eq author=ada --gt year=1900
//	vexpr query --config vexpr.yaml --collection books --in author=ada,alan
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vexpr",
		Short:         "Build and run vector database filter expressions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRenderCmd(), newQueryCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
