package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brogergvhs/nelodl/internal/config"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
	flagConfigDir    string
)

var rootCmd = &cobra.Command{
	Use:           "nelodl",
	Short:         "Download manga chapters from nelo-style sites into PDF or CBZ files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "directory holding config profiles (default: user config dir)")
}

func store() *config.Store {
	if flagConfigDir != "" {
		return config.NewStore(flagConfigDir)
	}

	return config.DefaultStore()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
