package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/vexpr/v1/wrapper"
)

type renderOutput struct {
	Expr   string         `json:"expr"`
	Params map[string]any `json:"params"`
}

func newRenderCmd() *cobra.Command {
	var flags predicateFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the filter expression built from the predicate flags",
		Example: `  vexpr render --eq author=ada --gt year=1900
  vexpr render --in status=draft,review --or --like title=Intro
  vexpr render --template --eq author=ada`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := wrapper.NewQuery[record](flags.options()...)
			if err := flags.apply(w); err != nil {
				return err
			}
			if !flags.template {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), w.Expr())
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(renderOutput{Expr: w.Expr(), Params: w.Params()})
		},
	}
	flags.register(cmd)
	return cmd
}
