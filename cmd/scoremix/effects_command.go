package main

import (
	"fmt"

	"github.com/opd-ai/scoremix/effects"
	"github.com/spf13/cobra"
)

func newEffectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effects [effect...]",
		Short: "List effects, or show the stage plan for a selection",
		Long: "Without arguments, lists the effect vocabulary. With arguments, shows the\n" +
			"stages the pipeline runs for that selection, in application order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, k := range effects.AllKinds() {
					fmt.Fprintln(out, k.String())
				}
				return nil
			}

			set, err := effects.ParseSet(args)
			if err != nil {
				return err
			}
			p, err := effects.NewPipeline(set)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Selection: %s\n", set)
			for i, stage := range p.Plan() {
				fmt.Fprintf(out, "  %d. %s\n", i+1, stage)
			}
			if len(p.Plan()) == 0 {
				fmt.Fprintln(out, "  (pass-through)")
			}
			return nil
		},
	}
	return cmd
}
