package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "till",
	Short:         "Point-of-sale terminal server",
	Long:          "till serves the point-of-sale API and runs ledger maintenance tasks from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(insightCmd)
	rootCmd.AddCommand(provisionCmd)
}
