// Package planner turns a career and a skill gap into an ordered roadmap.
package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/khrees2412/careerpath/internal/matcher"
	"github.com/khrees2412/careerpath/pkg/models"
)

// Phase titles in roadmap order.
const (
	PhaseFoundations  = "Foundations"
	PhaseCorePractice = "Core Practice"
	PhaseProjects     = "Projects"
	PhasePortfolio    = "Portfolio"
	PhaseApply        = "Apply & Iterate"
)

// maxSuggestions is how many resources a Foundations step names.
const maxSuggestions = 2

type Step struct {
	Title       string
	Description string
	ResourceID  *int64
}

type Phase struct {
	Title string
	Steps []Step
}

type Plan struct {
	Title  string
	Phases []Phase
}

// Input is everything Build needs. Resources maps a skill id to learning
// material for it.
type Input struct {
	Career    matcher.Career
	Gap       []matcher.GapItem
	Resources map[int64][]*models.Resource
}

// Build lays out the five phases. Foundations is omitted when nothing is
// missing; Core Practice has one step per required skill.
func Build(in Input) Plan {
	title := "Roadmap"
	if in.Career.Career != nil {
		title = "Roadmap for " + in.Career.Title
	}
	plan := Plan{Title: title}

	if len(in.Gap) > 0 {
		var steps []Step
		for _, g := range in.Gap {
			steps = append(steps, foundationStep(g, in.Resources[g.SkillID]))
		}
		plan.Phases = append(plan.Phases, Phase{Title: PhaseFoundations, Steps: steps})
	}

	var practice []Step
	for _, req := range in.Career.Requirements {
		name := skillName(req)
		practice = append(practice, Step{
			Title:       "Practice " + name,
			Description: fmt.Sprintf("Do 3-5 medium practice sets for %s and keep notes of what you learn.", name),
		})
	}
	plan.Phases = append(plan.Phases, Phase{Title: PhaseCorePractice, Steps: practice})

	plan.Phases = append(plan.Phases,
		Phase{Title: PhaseProjects, Steps: []Step{
			{Title: "Build a first project", Description: "Pick a small, well scoped idea and finish it in about two weeks."},
			{Title: "Build a second project", Description: "Increase the scope and add one new concept such as an API, auth or charts."},
			{Title: "Document your projects", Description: "Write short READMEs with screenshots and publish the code."},
		}},
		Phase{Title: PhasePortfolio, Steps: []Step{
			{Title: "Create a portfolio page", Description: "About, skills, two projects and a way to contact you."},
			{Title: "Polish your public profile", Description: "Headline, summary, skills and links to your projects."},
			{Title: "Prepare a project walkthrough", Description: "A five minute story from problem to demo to what you learned."},
		}},
		Phase{Title: PhaseApply, Steps: []Step{
			{Title: "Set a weekly target", Description: "Five tailored applications and one conversation with someone in the field."},
			{Title: "Practice interviews", Description: "Run a mock interview every week and revisit your weak areas."},
			{Title: "Iterate on feedback", Description: "Ship small improvements to your projects every week."},
		}},
	)
	return plan
}

func foundationStep(g matcher.GapItem, resources []*models.Resource) Step {
	step := Step{Title: "Learn the basics of " + g.Name}

	var names []string
	for i, r := range resources {
		if i == maxSuggestions {
			break
		}
		names = append(names, r.Title)
	}
	if len(resources) > 0 {
		id := resources[0].ID
		step.ResourceID = &id
	}

	suggested := "pick a beginner resource"
	if len(names) > 0 {
		suggested = strings.Join(names, ", ")
	}
	step.Description = fmt.Sprintf("Spend 2-3 weeks bringing %s from %d to %d. Suggested: %s.",
		g.Name, g.Have, g.Target, suggested)
	return step
}

func skillName(req *models.CareerSkill) string {
	if req.Skill != nil && req.Skill.Name != "" {
		return req.Skill.Name
	}
	return fmt.Sprintf("skill #%d", req.SkillID)
}

// Len is the number of steps across all phases.
func (p Plan) Len() int {
	n := 0
	for _, ph := range p.Phases {
		n += len(ph.Steps)
	}
	return n
}

// Roadmap returns the plan as a roadmap row for the user and career.
func (p Plan) Roadmap(userID int64, careerID *int64) *models.Roadmap {
	return &models.Roadmap{UserID: userID, CareerID: careerID, Title: p.Title}
}

// Steps flattens the phases into roadmap steps numbered from 1. When start
// is set, step n is due start + n*pace. Due dates are advisory.
func (p Plan) Steps(userID int64, start time.Time, pace time.Duration) []*models.RoadmapStep {
	out := make([]*models.RoadmapStep, 0, p.Len())
	for _, ph := range p.Phases {
		for _, st := range ph.Steps {
			order := len(out) + 1
			step := &models.RoadmapStep{
				UserID:      userID,
				StepOrder:   order,
				Title:       ph.Title + ": " + st.Title,
				Description: st.Description,
				ResourceID:  st.ResourceID,
			}
			if !start.IsZero() && pace > 0 {
				due := start.Add(time.Duration(order) * pace)
				step.DueDate = &due
			}
			out = append(out, step)
		}
	}
	return out
}
