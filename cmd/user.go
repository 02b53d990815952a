package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/khrees2412/careerpath/internal/app"
	"github.com/khrees2412/careerpath/internal/database"
	"github.com/khrees2412/careerpath/pkg/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  "Register, list, inspect and remove platform users",
}

var addUserCmd = &cobra.Command{
	Use:   "add <username> <email>",
	Short: "Register a user",
	Args:  cobra.ExactArgs(2),
	Example: `  echo 's3cret-pass' | careerpath user add alice alice@example.com --password-stdin
  CAREERPATH_PASSWORD='s3cret-pass' careerpath user add bob bob@example.com --role teacher`,
	RunE: func(cmd *cobra.Command, args []string) error {
		roleName, _ := cmd.Flags().GetString("role")

		role, err := models.ParseRole(roleName)
		if err != nil {
			return err
		}
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		u := &models.User{Username: args[0], Email: args[1], Role: role}
		if err := a.Register(cmd.Context(), u, password); err != nil {
			return err
		}
		printSuccess("Registered %s (ID: %d, role: %s)", u.Username, u.ID, u.Role)
		return nil
	},
}

// passwordEnv is read by user add when no password flag is given.
const passwordEnv = "CAREERPATH_PASSWORD"

// readPassword takes the password from stdin, the --password flag or
// passwordEnv, in that order.
func readPassword(cmd *cobra.Command) (string, error) {
	if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if pw, _ := cmd.Flags().GetString("password"); pw != "" {
		return pw, nil
	}
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}
	return "", fmt.Errorf("%w: password required: use --password-stdin or set %s", app.ErrInvalidArgument, passwordEnv)
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		roleName, _ := cmd.Flags().GetString("role")
		var role models.Role
		if roleName != "" {
			var err error
			if role, err = models.ParseRole(roleName); err != nil {
				return err
			}
		}

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		users, err := a.Store.ListUsers(cmd.Context(), role)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("No users yet. Add one with 'careerpath user add <username> <email>'")
			return nil
		}

		rows := make([][]string, 0, len(users))
		for _, u := range users {
			active := "yes"
			if !u.IsActive {
				active = "no"
			}
			rows = append(rows, []string{fmt.Sprint(u.ID), u.Username, u.Email, string(u.Role), active})
		}
		fmt.Println(titleStyle.Render("Users"))
		fmt.Println(renderTable([]string{"ID", "Username", "Email", "Role", "Active"}, rows))
		return nil
	},
}

var showUserCmd = &cobra.Command{
	Use:   "show <user>",
	Short: "Show a user with profile, skills and interests",
	Long:  "Show a user. <user> is an id, username or email.",
	Args:  cobra.ExactArgs(1),
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

		fmt.Println(titleStyle.Render(u.Username))
		printField("ID", u.ID)
		printField("Email", u.Email)
		printField("Role", u.Role)
		printField("Active", u.IsActive)
		printField("Joined", u.CreatedAt.Format(time.DateOnly))
		if u.LastLogin != nil {
			printField("Last login", u.LastLogin.Format(time.DateTime))
		}

		if p, err := a.Store.GetProfile(ctx, u.ID); err == nil {
			if name := p.FirstName + " " + p.LastName; name != " " {
				printField("Name", name)
			}
			if p.Location != "" {
				printField("Location", p.Location)
			}
			if p.GradeLevel != "" {
				printField("Grade", p.GradeLevel)
			}
			if p.CareerGoals != "" {
				printField("Goals", p.CareerGoals)
			}
		}

		skills, err := a.Store.UserSkills(ctx, u.ID)
		if err != nil {
			return err
		}
		if len(skills) > 0 {
			rows := make([][]string, 0, len(skills))
			for _, us := range skills {
				name := fmt.Sprintf("#%d", us.SkillID)
				if sk, err := a.Store.GetSkill(ctx, us.SkillID); err == nil {
					name = sk.Name
				}
				rows = append(rows, []string{name, fmt.Sprint(us.Level), string(us.Proficiency), fmt.Sprint(us.YearsExperience)})
			}
			fmt.Println(titleStyle.Render("Skills"))
			fmt.Println(renderTable([]string{"Skill", "Level", "Proficiency", "Years"}, rows))
		}

		links, interests, err := a.Store.UserInterests(ctx, u.ID)
		if err != nil {
			return err
		}
		if len(links) > 0 {
			rows := make([][]string, 0, len(links))
			for i, ui := range links {
				rows = append(rows, []string{interests[i].Name, fmt.Sprint(ui.Confidence)})
			}
			fmt.Println(titleStyle.Render("Interests"))
			fmt.Println(renderTable([]string{"Interest", "Confidence"}, rows))
		}
		return nil
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete <user>",
	Short: "Delete a user and everything they own",
	Long: `Delete a user. Their profile, skills, interests, recommendations, roadmaps
and other owned rows are removed with them; messages, uploads and audit
entries they authored are kept without an owner.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := a.Store.DeleteUser(cmd.Context(), u.ID); err != nil {
			return err
		}
		printSuccess("Deleted user %s (ID: %d)", u.Username, u.ID)
		return nil
	},
}

var deactivateUserCmd = &cobra.Command{
	Use:   "deactivate <user>",
	Short: "Disable a user without deleting their data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		undo, _ := cmd.Flags().GetBool("undo")
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := a.Store.SetUserActive(cmd.Context(), u.ID, undo); err != nil {
			return err
		}
		if undo {
			printSuccess("Reactivated %s", u.Username)
		} else {
			printSuccess("Deactivated %s", u.Username)
		}
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <user>",
	Short: "Update a user's profile",
	Args:  cobra.ExactArgs(1),
	Example: `  careerpath user profile alice --first Alice --last Smith --grade 12 --goals "Become a software engineer"`,
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

		p, err := a.Store.GetProfile(ctx, u.ID)
		if errors.Is(err, database.ErrNotFound) {
			p = &models.Profile{UserID: u.ID}
		} else if err != nil {
			return err
		}

		fields := map[string]*string{
			"first":    &p.FirstName,
			"last":     &p.LastName,
			"gender":   &p.Gender,
			"location": &p.Location,
			"bio":      &p.Bio,
			"grade":    &p.GradeLevel,
			"goals":    &p.CareerGoals,
		}
		updated := false
		for name, field := range fields {
			if cmd.Flags().Changed(name) {
				*field, _ = cmd.Flags().GetString(name)
				updated = true
			}
		}
		if cmd.Flags().Changed("dob") {
			dob, _ := cmd.Flags().GetString("dob")
			if dob == "" {
				p.DateOfBirth = nil
			} else {
				d, err := time.Parse(time.DateOnly, dob)
				if err != nil {
					return fmt.Errorf("invalid --dob %q: use YYYY-MM-DD", dob)
				}
				p.DateOfBirth = &d
			}
			updated = true
		}

		if !updated {
			fmt.Println("No fields to update. Use flags like --first, --location, --goals")
			return nil
		}
		p.UpdatedAt = time.Time{}

		if err := a.Store.UpsertProfile(ctx, p); err != nil {
			return err
		}
		printSuccess("Profile saved for %s", u.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(addUserCmd)
	userCmd.AddCommand(listUsersCmd)
	userCmd.AddCommand(showUserCmd)
	userCmd.AddCommand(deleteUserCmd)
	userCmd.AddCommand(deactivateUserCmd)
	userCmd.AddCommand(profileCmd)

	addUserCmd.Flags().String("role", "student", "Role (student, teacher, admin)")
	addUserCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
	addUserCmd.Flags().String("password", "", "Password (visible in shell history, prefer --password-stdin or "+passwordEnv+")")

	listUsersCmd.Flags().String("role", "", "Only list users with this role")

	deactivateUserCmd.Flags().Bool("undo", false, "Reactivate instead")

	profileCmd.Flags().String("first", "", "First name")
	profileCmd.Flags().String("last", "", "Last name")
	profileCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
	profileCmd.Flags().String("gender", "", "Gender")
	profileCmd.Flags().String("location", "", "Location")
	profileCmd.Flags().String("bio", "", "Short bio")
	profileCmd.Flags().String("grade", "", "Grade level")
	profileCmd.Flags().String("goals", "", "Career goals")
}
