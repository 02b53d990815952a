package cmd

import (
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data",
	Long: `Load a small demo data set covering every table. Seeding runs in one
transaction: on a database that already holds the demo rows it fails and
changes nothing. --catalog also merges the default career catalog, which is
safe to repeat.`,
	Example: `  careerpath seed
  careerpath seed --catalog
  careerpath seed --catalog-only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		withCatalog, _ := cmd.Flags().GetBool("catalog")
		catalogOnly, _ := cmd.Flags().GetBool("catalog-only")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if !catalogOnly {
			if err := a.Store.Seed(ctx); err != nil {
				return err
			}
			printSuccess("Demo data loaded")
		}

		if withCatalog || catalogOnly {
			stats, err := a.Store.ImportCatalog(ctx)
			if err != nil {
				return err
			}
			printSuccess("Catalog merged: %d careers, %d skills, %d requirements, %d resources",
				stats.Careers, stats.Skills, stats.Requirements, stats.Resources)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("catalog", false, "Also merge the default career catalog")
	seedCmd.Flags().Bool("catalog-only", false, "Only merge the default career catalog")
}
