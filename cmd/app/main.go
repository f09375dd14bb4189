package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"InsideX/pkg/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "insidex",
	Short: "InsideX insider-trading dashboard",
	Long: `InsideX serves insider trades and ranked buy signals over REST, renders
the dashboard on top of that API, and offers the same views in the terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $INSIDEX_CONFIG)")
	rootCmd.AddCommand(apiCmd, webCmd, signalsCmd, tradesCmd, scoreCmd, healthCmd, importCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
