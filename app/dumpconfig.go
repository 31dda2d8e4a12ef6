package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chirofind/chirofind/internal/config"
)

func init() { //nolint: gochecknoinits
	dumpConfigCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")

	rootCmd.AddCommand(dumpConfigCmd)
}

var dumpConfigCmd = &cobra.Command{
	Use:   "dump-config",
	Short: "Print the effective configuration as TOML",
	PreRun: func(_ *cobra.Command, _ []string) {
		if cfg, err = config.ReadConfig(configPath); err != nil {
			panic(err)
		}
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		out, err := config.DumpConfig(cfg)
		if err != nil {
			return err
		}

		fmt.Print(out)

		return nil
	},
}
