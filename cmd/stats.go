package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/careerpath/internal/database"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Row counts per table",
	Long:  "Display how many rows each table of the schema holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		total := 0
		rows := make([][]string, 0, len(database.Tables))
		for _, table := range database.Tables {
			n, err := a.Store.Count(cmd.Context(), table)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", table, err)
			}
			total += n
			if n == 0 && !all {
				continue
			}
			rows = append(rows, []string{table, fmt.Sprint(n)})
		}

		fmt.Println(titleStyle.Render("Database Statistics"))
		if len(rows) == 0 {
			fmt.Println("The database is empty. Load demo data with 'careerpath seed'")
			return nil
		}
		fmt.Println(renderTable([]string{"Table", "Rows"}, rows))
		printField("Total rows", total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Bool("all", false, "Include empty tables")
}
