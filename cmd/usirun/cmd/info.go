package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"usikit"
	"usikit/engine"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the engine's declared name and options",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := engineConfig()
		if err != nil {
			return err
		}
		log := newRunLogger()

		workDir := cfg.WorkingDir
		if workDir == "" {
			workDir = filepath.Dir(cfg.Path)
		}
		h, err := engine.Spawn(cfg.Path, workDir, cfg.Args)
		if err != nil {
			return err
		}
		defer h.Close()

		for _, opt := range cfg.PreHandshakeOptions {
			if err := h.SendCommandBeforeHandshake(usikit.SetOption(opt.Name, opt.Value)); err != nil {
				return err
			}
		}

		info, err := h.GetInfo()
		if err != nil {
			return err
		}
		log.Debug("handshake complete", "engine", info.Name())

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, info.Name())

		options := info.Options()
		names := make([]string, 0, len(options))
		for name := range options {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s=%s\n", name, options[name])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
