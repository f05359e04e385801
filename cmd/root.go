package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "neows",
	Short: "Browse NASA's near-earth object close approaches",
	Long: `neows queries the NASA Near Earth Object Web Service (NeoWs) feed for a date
range and presents the close approaches as a web dashboard or as a table.

Set NASA_API_KEY to a personal key from https://api.nasa.gov; without it the
shared DEMO_KEY is used, which is heavily rate limited.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
