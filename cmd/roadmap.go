package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Plan and track the path to a career",
}

var buildRoadmapCmd = &cobra.Command{
	Use:   "build <user> <career>",
	Short: "Build and save a roadmap from a user's skill gap",
	Args:  cobra.ExactArgs(2),
	Example: `  careerpath roadmap build alice software-engineer
  careerpath roadmap build alice data-scientist --start 2026-01-05`,
	RunE: func(cmd *cobra.Command, args []string) error {
		startStr, _ := cmd.Flags().GetString("start")
		var start time.Time
		if startStr != "" {
			var err error
			if start, err = time.Parse(time.DateOnly, startStr); err != nil {
				return fmt.Errorf("invalid --start %q: use YYYY-MM-DD", startStr)
			}
		}

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		u, err := a.ResolveUser(ctx, args[0])
		if err != nil {
			return err
		}
		c, err := a.ResolveCareer(ctx, args[1])
		if err != nil {
			return err
		}

		rm, steps, err := a.BuildRoadmap(ctx, u.ID, c, start)
		if err != nil {
			return err
		}
		printSuccess("Saved %q with %d steps (ID: %d)", rm.Title, len(steps), rm.ID)
		return nil
	},
}

var listRoadmapsCmd = &cobra.Command{
	Use:   "list <user>",
	Short: "List a user's roadmaps",
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
		roadmaps, err := a.Store.Roadmaps(cmd.Context(), u.ID)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(roadmaps))
		for _, rm := range roadmaps {
			rows = append(rows, []string{fmt.Sprint(rm.ID), rm.Title, rm.CreatedAt.Format(time.DateOnly)})
		}
		fmt.Println(titleStyle.Render("Roadmaps for " + u.Username))
		fmt.Println(renderTable([]string{"ID", "Title", "Created"}, rows))
		return nil
	},
}

var showRoadmapCmd = &cobra.Command{
	Use:   "show <roadmap-id>",
	Short: "Show the steps of a roadmap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "roadmap")
		if err != nil {
			return err
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		rm, err := a.Store.GetRoadmap(cmd.Context(), id)
		if err != nil {
			return err
		}
		steps, err := a.Store.RoadmapSteps(cmd.Context(), id)
		if err != nil {
			return err
		}

		done := 0
		rows := make([][]string, 0, len(steps))
		for _, st := range steps {
			mark := " "
			if st.IsDone {
				mark = "✓"
				done++
			}
			due := ""
			if st.DueDate != nil {
				due = st.DueDate.Format(time.DateOnly)
			}
			rows = append(rows, []string{fmt.Sprint(st.StepOrder), mark, st.Title, due, fmt.Sprint(st.ID)})
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%d/%d done)", rm.Title, done, len(steps))))
		fmt.Println(renderTable([]string{"#", "", "Step", "Due", "Step ID"}, rows))
		return nil
	},
}

var doneStepCmd = &cobra.Command{
	Use:   "done <step-id>",
	Short: "Mark a roadmap step as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		undo, _ := cmd.Flags().GetBool("undo")
		id, err := parseID(args[0], "step")
		if err != nil {
			return err
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Store.SetStepDone(cmd.Context(), id, !undo); err != nil {
			return err
		}
		if undo {
			printSuccess("Step %d reopened", id)
		} else {
			printSuccess("Step %d done", id)
		}
		return nil
	},
}

var deleteRoadmapCmd = &cobra.Command{
	Use:   "delete <roadmap-id>",
	Short: "Delete a roadmap and its steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "roadmap")
		if err != nil {
			return err
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Store.DeleteRoadmap(cmd.Context(), id); err != nil {
			return err
		}
		printSuccess("Deleted roadmap %d", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roadmapCmd)
	roadmapCmd.AddCommand(buildRoadmapCmd)
	roadmapCmd.AddCommand(listRoadmapsCmd)
	roadmapCmd.AddCommand(showRoadmapCmd)
	roadmapCmd.AddCommand(doneStepCmd)
	roadmapCmd.AddCommand(deleteRoadmapCmd)

	buildRoadmapCmd.Flags().String("start", "", "Start date (YYYY-MM-DD); steps are then due a week apart")
	doneStepCmd.Flags().Bool("undo", false, "Reopen the step instead")
}
