package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kanbohq/kanbo/internal/logging"
)

var (
	cfgFile   string
	debug     bool
	noPersist bool
	rootCmd   = &cobra.Command{
		Use:   "kanbo",
		Short: "kanbo is a kanban board with AI-assisted task annotation",
	}
)

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.kanbo/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noPersist, "no-persist", false, "keep preferences in memory only")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		logging.Init(debug)
	}
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(breakdownCmd())
	rootCmd.AddCommand(themeCmd())
	return rootCmd.Execute()
}

// configPath resolves the --config flag, defaulting into the kanbo dir.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := kanboDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func kanboDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".kanbo"), nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}
