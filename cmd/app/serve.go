package main

import (
	"github.com/spf13/cobra"

	"InsideX/internal/di"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the REST backend and run the signal scheduler",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := di.InitializeAPI(cfg)
		if err != nil {
			return err
		}
		return app.Run(cmd.Context())
	},
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the dashboard pages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := di.InitializeWeb(cfg)
		if err != nil {
			return err
		}
		return app.Run(cmd.Context())
	},
}
