package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Career recommendations",
}

var runRecommendCmd = &cobra.Command{
	Use:   "run <user>",
	Short: "Score the catalog for a user and save the best matches",
	Long: `Score every career against the user's skills and interests and save the
top matches as rule-based recommendations. Earlier recommendations are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		verbose, _ := cmd.Flags().GetBool("verbose")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		matches, err := a.Recommend(cmd.Context(), u.ID, limit)
		if err != nil {
			return err
		}

		if verbose {
			for _, m := range matches {
				printMatch(m)
			}
			return nil
		}
		rows := make([][]string, 0, len(matches))
		for i, m := range matches {
			rows = append(rows, []string{fmt.Sprint(i + 1), m.Career.Title, fmt.Sprintf("%.1f", m.Score), fmt.Sprint(len(m.Missing))})
		}
		fmt.Println(titleStyle.Render("Recommendations for " + u.Username))
		fmt.Println(renderTable([]string{"#", "Career", "Score", "Missing skills"}, rows))
		return nil
	},
}

var latestRecommendCmd = &cobra.Command{
	Use:   "latest <user>",
	Short: "Show the most recent recommendation per career",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		latest, err := a.Store.LatestRecommendations(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		if len(latest) == 0 {
			fmt.Printf("No recommendations for %s yet. Run 'careerpath recommend run %s'\n", u.Username, u.Username)
			return nil
		}

		rows := make([][]string, 0, len(latest))
		for _, r := range latest {
			rows = append(rows, []string{r.CareerTitle, fmt.Sprintf("%.1f", r.Score), string(r.Source),
				r.CreatedAt.Format("2006-01-02 15:04"), r.Rationale})
		}
		fmt.Println(titleStyle.Render("Latest recommendations for " + u.Username))
		fmt.Println(renderTable([]string{"Career", "Score", "Source", "When", "Why"}, rows))
		return nil
	},
}

var historyRecommendCmd = &cobra.Command{
	Use:   "history <user>",
	Short: "Show every recommendation of a user, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		recs, err := a.Store.Recommendations(cmd.Context(), u.ID)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			target := ""
			switch {
			case r.CareerID != nil:
				target = fmt.Sprintf("career #%d", *r.CareerID)
			case r.StreamID != nil:
				target = fmt.Sprintf("stream #%d", *r.StreamID)
			}
			rows = append(rows, []string{fmt.Sprint(r.ID), target, fmt.Sprintf("%.1f", r.Score), string(r.Source),
				r.CreatedAt.Format("2006-01-02 15:04")})
		}
		fmt.Println(titleStyle.Render("Recommendation history for " + u.Username))
		fmt.Println(renderTable([]string{"ID", "Target", "Score", "Source", "When"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.AddCommand(runRecommendCmd)
	recommendCmd.AddCommand(latestRecommendCmd)
	recommendCmd.AddCommand(historyRecommendCmd)

	runRecommendCmd.Flags().Int("limit", 5, "Number of careers to recommend (0 for all)")
	runRecommendCmd.Flags().BoolP("verbose", "v", false, "Show the rationale and gap of every match")
}
