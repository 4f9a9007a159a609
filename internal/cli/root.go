package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prig",
	Short: "Personal relationship intelligence graph",
	Long:  "Prig keeps a scored graph of your personal and professional network: who you know, how strong each relationship is, and where the leverage sits. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(queryCmd)
}
