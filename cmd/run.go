package cmd

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shop-scout/internal/flow"
	"github.com/ziadkadry99/shop-scout/internal/prompt"
	"github.com/ziadkadry99/shop-scout/internal/session"
	"github.com/ziadkadry99/shop-scout/internal/stages"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive shopping session in the terminal",
	Long: `Walks through the full pipeline interactively: analyzes the product
image (or asks for a product type), clarifies preferences, recommends
matching products, checks inventory, manages the cart, and prints a
session summary.`,
	RunE: runSession,
}

func init() {
	runCmd.Flags().String("image", "", "path to a product image to analyze")
	runCmd.Flags().String("type", "", "skip image analysis and start from this product type")
	rootCmd.AddCommand(runCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	deps, err := buildDeps(ctx, cfg, database)
	if err != nil {
		return err
	}
	deps.Prompter = prompt.NewTerminalPrompter()
	deps.Out = os.Stdout

	graph, err := stages.Build(&deps, flow.WithCycleLimit(cfg.CycleLimit))
	if err != nil {
		return err
	}

	sc := session.New()

	imagePath, _ := cmd.Flags().GetString("image")
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("reading image %s: %w", imagePath, err)
		}
		sc.ImageBase64 = base64.StdEncoding.EncodeToString(data)
	}

	if productType, _ := cmd.Flags().GetString("type"); productType != "" {
		sc.ProductType = productType
	}

	// Index the catalog for semantic similarity; harmless without an
	// embedder, and the finder degrades to fuzzy matching on failure.
	if products, err := deps.Catalog.Load(ctx); err == nil {
		if err := deps.Finder.Index(ctx, products); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "Warning: indexing catalog: %v\n", err)
		}
	}

	if err := graph.Run(ctx, sc); err != nil {
		var vErr *session.ValidationError
		if errors.As(err, &vErr) {
			return fmt.Errorf("invalid input: %s", vErr.Reason)
		}
		return err
	}

	return nil
}
