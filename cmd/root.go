package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shop-scout/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shopscout",
	Short: "AI-assisted product discovery with fuzzy matching",
	Long: `Shop Scout guides a shopper from a product image (or a typed product
type) through clarifying questions to a ranked set of catalog matches,
an inventory check, a cart, and a session summary. It runs the same
pipeline interactively in the terminal, over HTTP, or as MCP tools for
AI agents.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
