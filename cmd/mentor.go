package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/khrees2412/careerpath/pkg/models"
)

var mentorCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Mentors and student connections",
	Long: `Register mentors and manage student-mentor connections. A connection
starts Pending and is then Accepted or Rejected; an Accepted connection can be
Completed.`,
}

var registerMentorCmd = &cobra.Command{
	Use:   "register <user>",
	Short: "Register a user as a mentor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expertise, _ := cmd.Flags().GetString("expertise")
		bio, _ := cmd.Flags().GetString("bio")
		years, _ := cmd.Flags().GetInt("years")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		m := &models.Mentor{UserID: u.ID, Expertise: expertise, Bio: bio, YearsExperience: years, IsAvailable: true}
		if err := a.Store.CreateMentor(cmd.Context(), m); err != nil {
			return err
		}
		printSuccess("%s is now a mentor (mentor ID: %d)", u.Username, m.ID)
		return nil
	},
}

var listMentorsCmd = &cobra.Command{
	Use:   "list",
	Short: "List available mentors",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		mentors, err := a.Store.AvailableMentors(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(mentors))
		for _, m := range mentors {
			name := fmt.Sprintf("user #%d", m.UserID)
			if u, err := a.Store.GetUser(cmd.Context(), m.UserID); err == nil {
				name = u.Username
			}
			rows = append(rows, []string{fmt.Sprint(m.ID), name, m.Expertise, fmt.Sprint(m.YearsExperience)})
		}
		fmt.Println(titleStyle.Render("Available mentors"))
		fmt.Println(renderTable([]string{"Mentor ID", "User", "Expertise", "Years"}, rows))
		return nil
	},
}

var requestMentorCmd = &cobra.Command{
	Use:   "request <student> <mentor-id>",
	Short: "Request a connection with a mentor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mentorID, err := parseID(args[1], "mentor")
		if err != nil {
			return err
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		c := &models.StudentMentorConnection{StudentID: u.ID, MentorID: mentorID}
		if err := a.Store.RequestConnection(cmd.Context(), c); err != nil {
			return err
		}
		printSuccess("Connection %d requested (%s)", c.ID, c.Status)
		return nil
	},
}

var connectionsCmd = &cobra.Command{
	Use:   "connections <mentor-user>",
	Short: "List a mentor's connections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		statusName, _ := cmd.Flags().GetString("status")
		status := models.ConnectionStatus(statusName)
		if status != "" && !status.Valid() {
			return fmt.Errorf("invalid status %q: must be Pending, Accepted, Rejected or Completed", statusName)
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
		m, err := a.Store.GetMentorByUser(ctx, u.ID)
		if err != nil {
			return err
		}
		conns, err := a.Store.MentorConnections(ctx, m.ID, status)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(conns))
		for _, c := range conns {
			rows = append(rows, []string{fmt.Sprint(c.ID), fmt.Sprint(c.StudentID), string(c.Status),
				c.RequestedAt.Format(time.DateOnly)})
		}
		fmt.Println(titleStyle.Render("Connections of " + u.Username))
		fmt.Println(renderTable([]string{"ID", "Student", "Status", "Requested"}, rows))
		return nil
	},
}

// transitionCmd builds the accept, reject and complete commands.
func transitionCmd(use, short string, next models.ConnectionStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <mentor-user> <connection-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1], "connection")
			if err != nil {
				return err
			}
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			u, err := a.ResolveUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c, err := a.RespondToConnection(cmd.Context(), u.ID, id, next)
			if err != nil {
				return err
			}
			printSuccess("Connection %d is %s", c.ID, c.Status)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(mentorCmd)
	mentorCmd.AddCommand(registerMentorCmd)
	mentorCmd.AddCommand(listMentorsCmd)
	mentorCmd.AddCommand(requestMentorCmd)
	mentorCmd.AddCommand(connectionsCmd)
	mentorCmd.AddCommand(transitionCmd("accept", "Accept a pending connection", models.ConnectionAccepted))
	mentorCmd.AddCommand(transitionCmd("reject", "Reject a pending connection", models.ConnectionRejected))
	mentorCmd.AddCommand(transitionCmd("complete", "Complete an accepted connection", models.ConnectionCompleted))

	registerMentorCmd.Flags().String("expertise", "", "Area of expertise")
	registerMentorCmd.Flags().String("bio", "", "Short bio")
	registerMentorCmd.Flags().Int("years", 0, "Years of experience")

	connectionsCmd.Flags().String("status", "", "Only list connections in this status")
}
