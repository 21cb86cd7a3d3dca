package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "citypeople-service",
	Short: "CityPeople companion service: camera capture, uploads, grouped video feed",
	Long:  `HTTP + WebSocket API for the CityPeople client. Commands: api, migrate, seed, feed, send, command.`,
	RunE:  runAPI, // default: run API (same as "citypeople-service api")
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}
