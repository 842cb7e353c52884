package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/contraption/internal/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [scene]",
	Short: "Run a scene on the frame loop",
	Long: `Loads a scene file and drives it at the configured tick rate, drawing every
frame through the recording backend. With --inspector the live scene is served
over HTTP; with --watch the scene is reloaded whenever it changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		applyRunFlags(cmd, args, &cfg)

		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := a.run(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d frames, %d submitted\n", a.engine.Frames(), a.backend.Submitted())
		return nil
	},
}

// applyRunFlags copies explicitly set flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command, args []string, cfg *config.Config) {
	if len(args) > 0 {
		cfg.Scene = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("scene") {
		cfg.Scene, _ = flags.GetString("scene")
	}
	if flags.Changed("frames") {
		cfg.FrameLimit, _ = flags.GetUint64("frames")
	}
	if flags.Changed("tick-rate") {
		cfg.TickRate, _ = flags.GetFloat64("tick-rate")
	}
	if flags.Changed("inspector") {
		cfg.InspectorAddr, _ = flags.GetString("inspector")
	}
	if flags.Changed("watch") {
		cfg.Watch, _ = flags.GetBool("watch")
	}
	if flags.Changed("profile") {
		cfg.Profiling, _ = flags.GetBool("profile")
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("scene", "", "Scene file to load (.yaml)")
	runCmd.Flags().Uint64("frames", 0, "Stop after this many frames (0 runs until interrupted)")
	runCmd.Flags().Float64("tick-rate", 60, "Frames per second")
	runCmd.Flags().String("inspector", "", "Address for the debug inspector, e.g. :8080")
	runCmd.Flags().Bool("watch", false, "Reload the scene when it changes on disk")
	runCmd.Flags().Bool("profile", false, "Log frame rate and memory statistics")
}
