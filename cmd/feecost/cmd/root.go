// Package cmd holds the feecost CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "feecost",
	Short: "Payment transaction fee cost engine",
	Long: `feecost computes interchange and network fee costs for batches of
payment transactions. Point it at a CSV or XLSX export and it matches each
transaction against the card brand fee tables, computes per-transaction
costs, and prints an aggregate cost report.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
