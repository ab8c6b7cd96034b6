package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/opd-ai/scoremix"
	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/job"
	"github.com/spf13/cobra"
)

func newComposeCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var simulate bool

	cmd := &cobra.Command{
		Use:   "compose <manifest.toml>",
		Short: "Render a job manifest to a WAV soundtrack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg = cfg.Clone()
			if simulate {
				cfg.Acquisition.UseSimulation = true
			}

			manifestPath := args[0]
			m, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}

			engine, err := scoremix.New(&scoremix.Options{Config: cfg})
			if err != nil {
				return err
			}
			defer engine.Close()

			decoder := audio.NewDecoder(nil)
			if cfg.Acquisition.FFmpegPath != "" {
				ff, err := audio.NewFFmpegDecoder(cfg.Acquisition.FFmpegPath, cfg.Composition.Channels, cfg.Composition.SampleRate)
				if err != nil {
					return err
				}
				decoder = audio.NewDecoder(ff)
			}

			req, err := m.request(cmd.Context(), filepath.Dir(manifestPath), decoder)
			if err != nil {
				return err
			}

			result, runErr := engine.Compose(cmd.Context(), req)
			if result != nil {
				printResult(cmd, result)
			}
			if runErr != nil {
				return runErr
			}

			target := strings.TrimSpace(outPath)
			if target == "" {
				target = strings.TrimSuffix(manifestPath, filepath.Ext(manifestPath)) + ".wav"
			}
			if err := scoremix.WriteSoundtrack(target, result); err != nil {
				return fmt.Errorf("write soundtrack: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dms)\n", target, result.Mix.DurationMillis())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output WAV path (default: manifest name with .wav)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Use the simulated provider instead of HTTP")

	return cmd
}

func printResult(cmd *cobra.Command, result *job.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Job %s\n", result.ID)
	for _, line := range result.Report() {
		fmt.Fprintf(out, "  %s\n", line)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
}
