package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a catalog JSON file into the local database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := cfg.CatalogPath
		if len(args) == 1 {
			path = args[0]
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		source := catalog.NewFileProvider(path)
		store := catalog.NewStore(database)

		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Importing catalog"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		n, err := store.Import(ctx, source, func(p catalog.Product) {
			bar.Add(1)
		})
		bar.Finish()
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}

		fmt.Printf("Imported %d products from %s\n", n, path)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the products the assistant will recommend from",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		products, err := catalogProvider(ctx, database, cfg).Load(ctx)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("Catalog is empty. Run `shopscout catalog import` first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBRAND\tCOLOR\tPRICE\tCATEGORY")
		for _, p := range products {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.0f\t%s\n", p.ID, p.Name, p.Brand, p.Color, p.Price, p.Category)
		}
		return w.Flush()
	},
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	rootCmd.AddCommand(catalogCmd)
}
