package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"usikit/engine"
)

var (
	bestmovePosition string
	bestmoveByoyomi  time.Duration
	bestmoveWait     time.Duration
)

var bestmoveCmd = &cobra.Command{
	Use:   "bestmove",
	Short: "Ask the engine for the best move in a position",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := engineConfig()
		if err != nil {
			return err
		}
		log := newRunLogger()

		e, err := engine.NewThreadedEngine(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		if e.Name() == engine.FailedEngineName {
			return fmt.Errorf("engine failed to start: %s", cfg.Path)
		}
		log.Info("engine ready", "engine", e.Name())

		e.SetPosition(bestmovePosition)
		e.GoByoyomi(bestmoveByoyomi)
		log.Debug("search started", "position", bestmovePosition, "byoyomi", bestmoveByoyomi)

		mv, err := pollResult(e, bestmoveWait)
		if err != nil {
			return err
		}
		if mv == engine.MoveResign {
			log.Info("engine resigned")
		}
		fmt.Fprintln(cmd.OutOrStdout(), mv)
		return nil
	},
}

func init() {
	bestmoveCmd.Flags().StringVar(&bestmovePosition, "position", "startpos", "position payload (\"startpos …\" or \"sfen …\")")
	bestmoveCmd.Flags().DurationVar(&bestmoveByoyomi, "byoyomi", 3*time.Second, "per-move time allowance")
	bestmoveCmd.Flags().DurationVar(&bestmoveWait, "wait", 30*time.Second, "how long to wait for a result")
	rootCmd.AddCommand(bestmoveCmd)
}
