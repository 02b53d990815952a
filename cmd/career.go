package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/careerpath/internal/matcher"
	"github.com/khrees2412/careerpath/pkg/models"
)

var careerCmd = &cobra.Command{
	Use:   "career",
	Short: "Browse the career catalog",
}

var listCareersCmd = &cobra.Command{
	Use:   "list",
	Short: "List careers",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		careers, err := a.Store.ListCareers(cmd.Context())
		if err != nil {
			return err
		}

		rows := [][]string{}
		for _, c := range careers {
			if category != "" && !strings.EqualFold(c.Category, category) {
				continue
			}
			salary := ""
			if c.MedianSalary > 0 {
				salary = fmt.Sprintf("$%d", c.MedianSalary)
			}
			rows = append(rows, []string{fmt.Sprint(c.ID), c.Title, c.Slug, c.Category, string(c.DemandLevel), salary})
		}
		if len(rows) == 0 {
			fmt.Println("No careers found. Load the catalog with 'careerpath seed --catalog-only'")
			return nil
		}
		fmt.Println(titleStyle.Render("Careers"))
		fmt.Println(renderTable([]string{"ID", "Title", "Slug", "Category", "Demand", "Median salary"}, rows))
		return nil
	},
}

var showCareerCmd = &cobra.Command{
	Use:   "show <career>",
	Short: "Show a career with its requirements and pathways",
	Long:  "Show a career. <career> is an id or slug.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		c, err := a.ResolveCareer(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render(c.Title))
		if c.Overview != "" {
			fmt.Println(valueStyle.Render(c.Overview))
		}
		printField("Category", c.Category)
		if c.TypicalEducation != "" {
			printField("Typical education", c.TypicalEducation)
		}
		if c.GrowthRate != 0 {
			printField("Growth", fmt.Sprintf("%.0f%%", c.GrowthRate*100))
		}

		reqs, err := a.Store.CareerSkills(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(reqs) > 0 {
			rows := make([][]string, 0, len(reqs))
			for _, r := range reqs {
				rows = append(rows, []string{r.Skill.Name, fmt.Sprint(r.Importance), string(r.RequiredLevel)})
			}
			fmt.Println(titleStyle.Render("Required skills"))
			fmt.Println(renderTable([]string{"Skill", "Importance", "Level"}, rows))
		}

		streams, err := a.Store.CareerStreams(ctx, c.ID)
		if err != nil {
			return err
		}
		programs, institutions, err := a.Store.CareerPrograms(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(streams) > 0 || len(programs) > 0 {
			fmt.Println(titleStyle.Render("Pathways"))
			for _, s := range streams {
				fmt.Printf("  • %s %s\n", labelStyle.Render("Stream:"), s.Name)
			}
			for i, p := range programs {
				fmt.Printf("  • %s %s, %s (%s)\n", labelStyle.Render("Program:"), p.Name, institutions[i], p.DegreeLevel)
			}
		}
		return nil
	},
}

var careerResourcesCmd = &cobra.Command{
	Use:   "resources <career>",
	Short: "List learning resources for a career",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		c, err := a.ResolveCareer(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		list, err := a.Store.CareerResources(cmd.Context(), c.ID)
		if err != nil {
			return err
		}
		extra, err := a.Store.SkillResources(cmd.Context(), c.ID)
		if err != nil {
			return err
		}
		if len(list) == 0 && len(extra) == 0 {
			fmt.Printf("No resources linked to %s yet.\n", c.Title)
			return nil
		}

		rows := make([][]string, 0, len(list)+len(extra))
		row := func(rank string, r *models.Resource) []string {
			free := ""
			if r.IsFree {
				free = "free"
			}
			return []string{rank, r.Title, string(r.ResourceType), r.Provider, free, r.URL}
		}
		for _, cr := range list {
			rows = append(rows, row(fmt.Sprint(cr.Priority), cr.Resource))
		}
		for _, r := range extra {
			rows = append(rows, row("skill", r))
		}
		fmt.Println(titleStyle.Render("Resources for " + c.Title))
		fmt.Println(renderTable([]string{"#", "Title", "Type", "Provider", "", "URL"}, rows))
		return nil
	},
}

var careerGapCmd = &cobra.Command{
	Use:   "gap <user> <career>",
	Short: "Compare a user's skills with a career",
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
		c, err := a.ResolveCareer(ctx, args[1])
		if err != nil {
			return err
		}
		m, err := a.Gap(ctx, u.ID, c)
		if err != nil {
			return err
		}
		printMatch(m)
		return nil
	},
}

func printMatch(m matcher.Match) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: %.1f / 100", m.Career.Title, m.Score)))
	fmt.Println(valueStyle.Render(matcher.Rationale(m)))
	if len(m.Missing) == 0 {
		return
	}
	rows := make([][]string, 0, len(m.Missing))
	for _, g := range m.Missing {
		rows = append(rows, []string{g.Name, fmt.Sprint(g.Importance), fmt.Sprint(g.Have), fmt.Sprint(g.Target)})
	}
	fmt.Println(renderTable([]string{"Missing skill", "Importance", "Have", "Target"}, rows))
}

func init() {
	rootCmd.AddCommand(careerCmd)
	careerCmd.AddCommand(listCareersCmd)
	careerCmd.AddCommand(showCareerCmd)
	careerCmd.AddCommand(careerResourcesCmd)
	careerCmd.AddCommand(careerGapCmd)

	listCareersCmd.Flags().String("category", "", "Only list careers in this category")
}
