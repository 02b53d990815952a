package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/khrees2412/careerpath/pkg/models"
)

var assignmentCmd = &cobra.Command{
	Use:   "assignment",
	Short: "Assignments, submissions and grades",
}

var createAssignmentCmd = &cobra.Command{
	Use:   "create <teacher> <title>",
	Short: "Create an assignment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		dueStr, _ := cmd.Flags().GetString("due")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		hw := &models.Assignment{CreatedBy: &u.ID, Title: args[1], Description: description}
		if dueStr != "" {
			due, err := time.Parse(time.DateOnly, dueStr)
			if err != nil {
				return fmt.Errorf("invalid --due %q: use YYYY-MM-DD", dueStr)
			}
			hw.DueDate = &due
		}
		if err := a.Store.CreateAssignment(cmd.Context(), hw); err != nil {
			return err
		}
		printSuccess("Assignment %d created", hw.ID)
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <student> <assignment-id>",
	Short: "Submit work for an assignment",
	Long: `Submit work. A student submits an assignment once; --file-url records the
metadata of a file hosted elsewhere and attaches it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetString("content")
		fileURL, _ := cmd.Flags().GetString("file-url")
		fileName, _ := cmd.Flags().GetString("file-name")
		mime, _ := cmd.Flags().GetString("mime")

		assignmentID, err := parseID(args[1], "assignment")
		if err != nil {
			return err
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

		sub := &models.Submission{AssignmentID: assignmentID, StudentID: u.ID, Content: content}
		if fileURL != "" {
			if fileName == "" {
				fileName = fileURL
			}
			up := &models.Upload{OwnerID: &u.ID, FileName: fileName, FileURL: fileURL, MimeType: mime}
			if err := a.Store.RecordUpload(ctx, up); err != nil {
				return err
			}
			sub.UploadID = &up.ID
		}
		if err := a.Store.Submit(ctx, sub); err != nil {
			return err
		}
		printSuccess("Submission %d recorded", sub.ID)
		return nil
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade <submission-id> <grade>",
	Short: "Grade a submission from 0 to 100",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "submission")
		if err != nil {
			return err
		}
		var grade int
		if _, err := fmt.Sscanf(args[1], "%d", &grade); err != nil {
			return fmt.Errorf("invalid grade %q", args[1])
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Store.Grade(cmd.Context(), id, grade); err != nil {
			return err
		}
		printSuccess("Submission %d graded %d", id, grade)
		return nil
	},
}

var submissionsCmd = &cobra.Command{
	Use:   "submissions <assignment-id>",
	Short: "List the submissions of an assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "assignment")
		if err != nil {
			return err
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		hw, err := a.Store.GetAssignment(cmd.Context(), id)
		if err != nil {
			return err
		}
		subs, err := a.Store.Submissions(cmd.Context(), id)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(subs))
		for _, s := range subs {
			grade := "-"
			if s.Grade != nil {
				grade = fmt.Sprint(*s.Grade)
			}
			file := ""
			if s.UploadID != nil {
				file = fmt.Sprintf("upload #%d", *s.UploadID)
			}
			rows = append(rows, []string{fmt.Sprint(s.ID), fmt.Sprint(s.StudentID), grade, file, s.SubmittedAt.Format(time.DateTime)})
		}
		fmt.Println(titleStyle.Render(hw.Title))
		fmt.Println(renderTable([]string{"ID", "Student", "Grade", "File", "Submitted"}, rows))
		return nil
	},
}

var assessmentCmd = &cobra.Command{
	Use:   "assessment",
	Short: "Record and list assessment results",
}

var recordAssessmentCmd = &cobra.Command{
	Use:     "record <user> <type> <score-json>",
	Short:   "Record an assessment result",
	Long:    "Record an assessment result. Results are append-only and cannot be edited.",
	Args:    cobra.ExactArgs(3),
	Example: `  careerpath assessment record alice aptitude '{"logic": 8, "math": 7}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !json.Valid([]byte(args[2])) {
			return fmt.Errorf("score must be valid JSON")
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		rec := &models.Assessment{UserID: u.ID, AssessmentType: args[1], Score: models.Payload(args[2])}
		if err := a.Store.RecordAssessment(cmd.Context(), rec); err != nil {
			return err
		}
		printSuccess("Assessment %d recorded", rec.ID)
		return nil
	},
}

var listAssessmentsCmd = &cobra.Command{
	Use:   "list <user>",
	Short: "List a user's assessment results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		list, err := a.Store.Assessments(cmd.Context(), u.ID, kind)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(list))
		for _, as := range list {
			rows = append(rows, []string{fmt.Sprint(as.ID), as.AssessmentType, string(as.Score), as.TakenAt.Format(time.DateTime)})
		}
		fmt.Println(titleStyle.Render("Assessments of " + u.Username))
		fmt.Println(renderTable([]string{"ID", "Type", "Score", "Taken"}, rows))
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit <entity-type> <entity-id>",
	Short: "Show the audit trail of an entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1], args[0])
		if err != nil {
			return err
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		trail, err := a.Store.AuditTrail(cmd.Context(), args[0], id)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(trail))
		for _, e := range trail {
			actor := "-"
			if e.UserID != nil {
				actor = fmt.Sprintf("user #%d", *e.UserID)
			}
			rows = append(rows, []string{e.CreatedAt.Format(time.DateTime), actor, e.Action, string(e.Details)})
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("Audit trail of %s %d", args[0], id)))
		fmt.Println(renderTable([]string{"When", "Actor", "Action", "Details"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assignmentCmd)
	rootCmd.AddCommand(assessmentCmd)
	rootCmd.AddCommand(auditCmd)

	assignmentCmd.AddCommand(createAssignmentCmd)
	assignmentCmd.AddCommand(submitCmd)
	assignmentCmd.AddCommand(gradeCmd)
	assignmentCmd.AddCommand(submissionsCmd)

	assessmentCmd.AddCommand(recordAssessmentCmd)
	assessmentCmd.AddCommand(listAssessmentsCmd)

	createAssignmentCmd.Flags().String("description", "", "Assignment description")
	createAssignmentCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	submitCmd.Flags().String("content", "", "Inline answer")
	submitCmd.Flags().String("file-url", "", "URL of a file hosted elsewhere")
	submitCmd.Flags().String("file-name", "", "Name of the attached file")
	submitCmd.Flags().String("mime", "", "MIME type of the attached file")

	listAssessmentsCmd.Flags().String("type", "", "Only list assessments of this type")
}
