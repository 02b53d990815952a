package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the database schema",
	Long:  "Apply, roll back and inspect the versioned schema migrations",
}

var schemaApplyCmd = &cobra.Command{
	Use:         "apply",
	Short:       "Apply all pending migrations",
	Annotations: map[string]string{annotationSkipMigrate: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Store.Apply(cmd.Context()); err != nil {
			return err
		}
		printSuccess("Schema is up to date")
		return nil
	},
}

var schemaRollbackCmd = &cobra.Command{
	Use:         "rollback",
	Short:       "Roll back applied migrations, newest first",
	Annotations: map[string]string{annotationSkipMigrate: ""},
	Example: `  careerpath schema rollback
  careerpath schema rollback --steps 2
  careerpath schema rollback --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		all, _ := cmd.Flags().GetBool("all")
		if all {
			steps = 0
		} else if steps <= 0 {
			return fmt.Errorf("--steps must be positive; use --all to roll back everything")
		}

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Store.Rollback(cmd.Context(), steps); err != nil {
			return err
		}
		printSuccess("Rollback complete")
		return nil
	},
}

var schemaStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show which migrations are applied",
	Annotations: map[string]string{annotationSkipMigrate: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		status, err := a.Store.Status(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(status))
		for _, st := range status {
			applied, at := "no", ""
			if st.Applied {
				applied, at = "yes", st.AppliedAt.Format("2006-01-02 15:04:05")
			}
			rows = append(rows, []string{fmt.Sprint(st.Version), st.Name, applied, at})
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("Schema (%s)", a.Store.Dialect())))
		fmt.Println(renderTable([]string{"Version", "Name", "Applied", "At"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaApplyCmd)
	schemaCmd.AddCommand(schemaRollbackCmd)
	schemaCmd.AddCommand(schemaStatusCmd)

	schemaRollbackCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	schemaRollbackCmd.Flags().Bool("all", false, "Roll back every applied migration")
}
