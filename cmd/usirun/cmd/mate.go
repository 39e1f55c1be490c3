package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"usikit/engine"
)

var (
	matePosition string
	mateTimeout  time.Duration
	mateWait     time.Duration
)

var mateCmd = &cobra.Command{
	Use:   "mate",
	Short: "Run a mate search on a position",
	Long: `Run a mate search on a position.

Prints the first move of the mating line when the engine finds one.
Engines report "no mate", "not supported" and "search timed out" through
the same resignation sentinel; all three print as "no mate found".`,
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

		e.SetPosition(matePosition)
		if mateTimeout > 0 {
			e.GoMate(&mateTimeout)
		} else {
			e.GoMate(nil)
		}

		mv, err := pollResult(e, mateWait)
		if err != nil {
			return err
		}
		if mv == engine.MoveResign {
			fmt.Fprintln(cmd.OutOrStdout(), "no mate found")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), mv)
		return nil
	},
}

func init() {
	mateCmd.Flags().StringVar(&matePosition, "position", "startpos", "position payload (\"startpos …\" or \"sfen …\")")
	mateCmd.Flags().DurationVar(&mateTimeout, "timeout", 0, "mate search time bound (0 = unbounded)")
	mateCmd.Flags().DurationVar(&mateWait, "wait", 60*time.Second, "how long to wait for a result")
	rootCmd.AddCommand(mateCmd)
}
