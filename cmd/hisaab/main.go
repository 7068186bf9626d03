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
	Use:   "hisaab",
	Short: "Track income and expenses from the command line",
	Long: `Hisaab-Kitaab is a personal finance ledger. Transactions are stored
per owner in the configured backend (csv, sqlite or memory) and can be
listed, summarized and broken down by category.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", os.Getenv("HISAAB_OWNER"), "ledger owner (defaults to $HISAAB_OWNER)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
}
