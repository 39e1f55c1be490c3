// Package cmd implements the usirun command tree.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"usikit/engine"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "usirun",
	Short: "usirun drives USI shogi engines from the command line",
	Long: `usirun is a small driver for USI (Universal Shogi Interface) engines.

It spawns an engine process, performs the USI handshake, and runs one
exchange per invocation: inspect the engine's declared options, ask for
the best move in a position, or run a mate search.

Common workflows:

  Inspect an engine:
    usirun info --engine /opt/shogi/lesserkai

  Best move with 5 seconds of byoyomi:
    usirun bestmove --engine /opt/shogi/lesserkai --byoyomi 5s

  Use an engine config file (pre-handshake options, args, working dir):
    usirun bestmove --config fairy-stockfish.yaml --position startpos

Configuration:
  The engine can also be set via environment variables:
    USIRUN_ENGINE    path to the engine executable
    USIRUN_CONFIG    path to a YAML engine config`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("engine", "", "path to the engine executable")
	rootCmd.PersistentFlags().String("config", "", "path to a YAML engine config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("engine", rootCmd.PersistentFlags().Lookup("engine"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Read environment variables that match "USIRUN_VARNAME".
	viper.SetEnvPrefix("USIRUN")
	viper.AutomaticEnv()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// engineConfig resolves the engine configuration from flags and
// environment: an explicit config file wins over a bare engine path.
func engineConfig() (engine.Config, error) {
	if path := viper.GetString("config"); path != "" {
		return engine.LoadConfig(path)
	}
	if path := viper.GetString("engine"); path != "" {
		return engine.Config{Path: path}, nil
	}
	return engine.Config{}, fmt.Errorf("no engine specified: use --engine, --config or USIRUN_ENGINE")
}

// newRunLogger returns the default logger tagged with a fresh run id,
// so concurrent invocations stay distinguishable in shared logs.
func newRunLogger() *slog.Logger {
	return slog.Default().With("run_id", uuid.NewString())
}

// pollResult polls the facade for a move result until wait elapses.
// A dead session is drained before being reported, so a result produced
// just before teardown is not lost.
func pollResult(e *engine.ThreadedEngine, wait time.Duration) (string, error) {
	deadline := time.After(wait)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-deadline:
			return "", fmt.Errorf("no result from the engine within %s", wait)
		case <-e.Done():
			if mv, ok := e.PollMove(); ok {
				return mv, nil
			}
			return "", fmt.Errorf("engine session ended before producing a result")
		case <-tick.C:
			if mv, ok := e.PollMove(); ok {
				return mv, nil
			}
		}
	}
}
