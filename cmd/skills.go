package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/careerpath/pkg/models"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage skills",
	Long:  "Maintain the skill vocabulary and the skills users hold",
}

var addSkillCmd = &cobra.Command{
	Use:   "add <skill-name>",
	Short: "Add a skill to the vocabulary",
	Args:  cobra.ExactArgs(1),
	Example: `  careerpath skill add "Go"
  careerpath skill add "Machine Learning" --category data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		sk := &models.Skill{Name: args[0], Category: category, Description: description}
		if err := a.Store.CreateSkill(cmd.Context(), sk); err != nil {
			return err
		}
		printSuccess("Added skill: %s (%s)", sk.Name, sk.Slug)
		return nil
	},
}

var listSkillsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the skill vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		skills, err := a.Store.ListSkills(cmd.Context())
		if err != nil {
			return err
		}
		if len(skills) == 0 {
			fmt.Println("No skills found. Add skills with 'careerpath skill add <skill-name>'")
			return nil
		}

		rows := make([][]string, 0, len(skills))
		for _, sk := range skills {
			rows = append(rows, []string{fmt.Sprint(sk.ID), sk.Name, sk.Slug, sk.Category})
		}
		fmt.Println(titleStyle.Render("Skills"))
		fmt.Println(renderTable([]string{"ID", "Name", "Slug", "Category"}, rows))
		return nil
	},
}

var setSkillCmd = &cobra.Command{
	Use:   "set <user> <skill-slug>",
	Short: "Declare a user's skill level",
	Args:  cobra.ExactArgs(2),
	Example: `  careerpath skill set alice python --level 70
  careerpath skill set alice sql --proficiency advanced --years 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		profName, _ := cmd.Flags().GetString("proficiency")
		years, _ := cmd.Flags().GetInt("years")

		var prof models.ProficiencyLevel
		if profName != "" {
			var err error
			if prof, err = models.ParseProficiency(profName); err != nil {
				return err
			}
		}
		// One of the two is enough; the other is derived.
		switch {
		case level < 0 && prof == "":
			return fmt.Errorf("either --level or --proficiency is required")
		case level < 0:
			level = prof.TargetLevel()
		case prof == "":
			prof = models.ProficiencyForLevel(level)
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
		sk, err := a.Store.GetSkillBySlug(ctx, args[1])
		if err != nil {
			return fmt.Errorf("skill %q: %w", args[1], err)
		}

		us := &models.UserSkill{UserID: u.ID, SkillID: sk.ID, Level: level, Proficiency: prof, YearsExperience: years}
		if err := a.Store.SetUserSkill(ctx, us); err != nil {
			return err
		}
		printSuccess("%s: %s at level %d (%s)", u.Username, sk.Name, level, prof)
		return nil
	},
}

var removeSkillCmd = &cobra.Command{
	Use:   "remove <user> <skill-slug>",
	Short: "Remove a skill from a user",
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
		sk, err := a.Store.GetSkillBySlug(ctx, args[1])
		if err != nil {
			return fmt.Errorf("skill %q: %w", args[1], err)
		}
		if err := a.Store.RemoveUserSkill(ctx, u.ID, sk.ID); err != nil {
			return err
		}
		printSuccess("Removed %s from %s", sk.Name, u.Username)
		return nil
	},
}

var interestCmd = &cobra.Command{
	Use:   "interest",
	Short: "Manage interests",
	Long:  "Maintain the interest vocabulary and the interests users declare",
}

var addInterestCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an interest to the vocabulary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		in := &models.Interest{Name: args[0], Description: description}
		if err := a.Store.CreateInterest(cmd.Context(), in); err != nil {
			return err
		}
		printSuccess("Added interest: %s (%s)", in.Name, in.Slug)
		return nil
	},
}

var listInterestsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the interest vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		interests, err := a.Store.ListInterests(cmd.Context())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(interests))
		for _, in := range interests {
			rows = append(rows, []string{fmt.Sprint(in.ID), in.Name, in.Slug})
		}
		fmt.Println(titleStyle.Render("Interests"))
		fmt.Println(renderTable([]string{"ID", "Name", "Slug"}, rows))
		return nil
	},
}

var setInterestCmd = &cobra.Command{
	Use:     "set <user> <interest-slug>",
	Short:   "Declare a user's interest",
	Args:    cobra.ExactArgs(2),
	Example: `  careerpath interest set alice programming --confidence 90`,
	RunE: func(cmd *cobra.Command, args []string) error {
		confidence, _ := cmd.Flags().GetInt("confidence")
		remove, _ := cmd.Flags().GetBool("remove")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		u, err := a.ResolveUser(ctx, args[0])
		if err != nil {
			return err
		}
		in, err := a.Store.GetInterestBySlug(ctx, args[1])
		if err != nil {
			return fmt.Errorf("interest %q: %w", args[1], err)
		}

		if remove {
			if err := a.Store.RemoveUserInterest(ctx, u.ID, in.ID); err != nil {
				return err
			}
			printSuccess("Removed %s from %s", in.Name, u.Username)
			return nil
		}

		ui := &models.UserInterest{UserID: u.ID, InterestID: in.ID, Confidence: confidence}
		if err := a.Store.SetUserInterest(ctx, ui); err != nil {
			return err
		}
		printSuccess("%s: %s (confidence %d)", u.Username, in.Name, confidence)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(interestCmd)

	skillCmd.AddCommand(addSkillCmd)
	skillCmd.AddCommand(listSkillsCmd)
	skillCmd.AddCommand(setSkillCmd)
	skillCmd.AddCommand(removeSkillCmd)

	interestCmd.AddCommand(addInterestCmd)
	interestCmd.AddCommand(listInterestsCmd)
	interestCmd.AddCommand(setInterestCmd)

	addSkillCmd.Flags().String("category", "", "Skill category")
	addSkillCmd.Flags().String("description", "", "Skill description")

	setSkillCmd.Flags().Int("level", -1, "Level from 0 to 100")
	setSkillCmd.Flags().String("proficiency", "", "Proficiency (beginner, intermediate, advanced, expert)")
	setSkillCmd.Flags().Int("years", 0, "Years of experience")

	addInterestCmd.Flags().String("description", "", "Interest description")

	setInterestCmd.Flags().Int("confidence", 50, "Confidence from 0 to 100")
	setInterestCmd.Flags().Bool("remove", false, "Remove the interest instead")
}
