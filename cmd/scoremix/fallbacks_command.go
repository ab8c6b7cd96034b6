package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/opd-ai/scoremix"
	"github.com/spf13/cobra"
)

func newFallbacksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fallbacks",
		Short: "List the fallback table with sources and digests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg = cfg.Clone()
			cfg.Acquisition.UseSimulation = true

			engine, err := scoremix.New(&scoremix.Options{Config: cfg})
			if err != nil {
				return err
			}
			defer engine.Close()

			entries, err := engine.Fallbacks().Entries()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SUB-MOOD\tMOOD\tSOURCE\tBLAKE2B")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Mood, e.Mood.Mood(), e.Source, e.Digest)
			}
			return w.Flush()
		},
	}
}
