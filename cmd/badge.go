package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/careerpath/pkg/models"
)

var badgeCmd = &cobra.Command{
	Use:   "badge",
	Short: "Create and award badges",
}

var createBadgeCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a badge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, _ := cmd.Flags().GetInt("points")
		description, _ := cmd.Flags().GetString("description")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		b := &models.Badge{Name: args[0], Description: description, Points: points}
		if err := a.Store.CreateBadge(cmd.Context(), b); err != nil {
			return err
		}
		printSuccess("Created badge %s (%s, %d points)", b.Name, b.Slug, b.Points)
		return nil
	},
}

var awardBadgeCmd = &cobra.Command{
	Use:   "award <student> <badge-slug>",
	Short: "Award a badge to a student",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		u, err := a.ResolveUser(ctx, args[0])
		if err != nil {
			return err
		}
		b, err := a.Store.GetBadgeBySlug(ctx, args[1])
		if err != nil {
			return fmt.Errorf("badge %q: %w", args[1], err)
		}
		if err := a.Store.AwardBadge(ctx, &models.StudentBadge{StudentID: u.ID, BadgeID: b.ID}); err != nil {
			return err
		}

		note := &models.Notification{UserID: u.ID, Kind: models.NotificationSystem,
			Title: "Badge earned: " + b.Name, Body: fmt.Sprintf("+%d points", b.Points)}
		if err := a.Store.CreateNotification(ctx, note); err != nil {
			a.Log.Warn("failed to notify student", "student_id", u.ID, "error", err)
		}
		printSuccess("Awarded %s to %s", b.Name, u.Username)
		return nil
	},
}

var listBadgesCmd = &cobra.Command{
	Use:   "list <student>",
	Short: "List a student's badges",
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
		badges, points, err := a.Store.StudentBadges(cmd.Context(), u.ID)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(badges))
		for _, b := range badges {
			rows = append(rows, []string{b.Name, fmt.Sprint(b.Points), b.Description})
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("Badges of %s (%d points)", u.Username, points)))
		fmt.Println(renderTable([]string{"Badge", "Points", "Description"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(badgeCmd)
	badgeCmd.AddCommand(createBadgeCmd)
	badgeCmd.AddCommand(awardBadgeCmd)
	badgeCmd.AddCommand(listBadgesCmd)

	createBadgeCmd.Flags().Int("points", 10, "Points the badge is worth")
	createBadgeCmd.Flags().String("description", "", "Badge description")
}
