// Package matcher scores careers against a user's skills and interests.
package matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/khrees2412/careerpath/pkg/models"
)

// InterestBonus is added per interest that names the career.
const InterestBonus = 10.0

// Profile is what the recommender knows about a user.
type Profile struct {
	// Levels maps skill id to the user's 0-100 level.
	Levels    map[int64]int
	Interests []*models.Interest
}

// NewProfile builds a Profile from stored user skills.
func NewProfile(skills []*models.UserSkill, interests []*models.Interest) Profile {
	levels := make(map[int64]int, len(skills))
	for _, us := range skills {
		levels[us.SkillID] = us.Level
	}
	return Profile{Levels: levels, Interests: interests}
}

// Career is a career with its required skills. Requirements are expected to
// carry their Skill so gaps and rationales can name them.
type Career struct {
	*models.Career
	Requirements []*models.CareerSkill
}

// Match is one scored career.
type Match struct {
	Career    Career
	Score     float64
	Matched   []string
	Missing   []GapItem
	Interests []string
}

// GapItem is a required skill the user lacks or holds below target.
type GapItem struct {
	SkillID    int64
	Name       string
	Importance int
	Target     int
	Have       int
}

// Score rates a career from 0 to 100. Each requirement contributes its
// coverage (level over target, capped at 1) weighted by importance. Every
// interest named by the career adds InterestBonus.
func Score(p Profile, c Career) float64 {
	score := skillScore(p, c) + InterestBonus*float64(len(matchedInterests(p, c)))
	return round(math.Min(score, 100))
}

func skillScore(p Profile, c Career) float64 {
	var weighted, total float64
	for _, req := range c.Requirements {
		w := float64(req.Importance)
		total += w
		weighted += w * coverage(p.Levels[req.SkillID], req.RequiredLevel.TargetLevel())
	}
	if total == 0 {
		return 0
	}
	return weighted / total * 100
}

func coverage(have, target int) float64 {
	if target <= 0 {
		return 1
	}
	return math.Min(float64(have)/float64(target), 1)
}

// matchedInterests returns the interests whose name or slug appears in the
// career's title, slug or category.
func matchedInterests(p Profile, c Career) []string {
	if c.Career == nil {
		return nil
	}
	haystack := strings.ToLower(strings.Join([]string{c.Title, c.Slug, c.Category}, " "))
	var out []string
	for _, in := range p.Interests {
		name := strings.ToLower(strings.TrimSpace(in.Name))
		slug := strings.ToLower(strings.TrimSpace(in.Slug))
		if (name != "" && strings.Contains(haystack, name)) || (slug != "" && strings.Contains(haystack, slug)) {
			out = append(out, in.Name)
		}
	}
	return out
}

// Gap lists the required skills below target, most important first.
func Gap(p Profile, c Career) []GapItem {
	var out []GapItem
	for _, req := range c.Requirements {
		target := req.RequiredLevel.TargetLevel()
		have := p.Levels[req.SkillID]
		if have >= target {
			continue
		}
		out = append(out, GapItem{
			SkillID:    req.SkillID,
			Name:       skillName(req),
			Importance: req.Importance,
			Target:     target,
			Have:       have,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance > out[j].Importance
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func matchedSkills(p Profile, c Career) []string {
	var out []string
	for _, req := range c.Requirements {
		if p.Levels[req.SkillID] >= req.RequiredLevel.TargetLevel() {
			out = append(out, skillName(req))
		}
	}
	sort.Strings(out)
	return out
}

func skillName(req *models.CareerSkill) string {
	if req.Skill != nil && req.Skill.Name != "" {
		return req.Skill.Name
	}
	return fmt.Sprintf("skill #%d", req.SkillID)
}

// Evaluate scores one career and records why.
func Evaluate(p Profile, c Career) Match {
	return Match{
		Career:    c,
		Score:     Score(p, c),
		Matched:   matchedSkills(p, c),
		Missing:   Gap(p, c),
		Interests: matchedInterests(p, c),
	}
}

// Rank returns up to limit careers that score above zero, best first. Ties
// keep the input order. When no career scores, the first limit careers are
// returned at zero so a user always gets a starting point. A limit of 0 or
// less means no limit.
func Rank(p Profile, careers []Career, limit int) []Match {
	var out []Match
	for _, c := range careers {
		if m := Evaluate(p, c); m.Score > 0 {
			out = append(out, m)
		}
	}

	if len(out) == 0 {
		for _, c := range careers {
			out = append(out, Evaluate(p, c))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Rationale explains a match in one or two sentences.
func Rationale(m Match) string {
	var parts []string
	if len(m.Matched) > 0 {
		parts = append(parts, "You already have "+strings.Join(m.Matched, ", ")+".")
	}
	if len(m.Interests) > 0 {
		parts = append(parts, "Matches your interest in "+strings.Join(m.Interests, ", ")+".")
	}
	if len(m.Missing) > 0 {
		names := make([]string, len(m.Missing))
		for i, g := range m.Missing {
			names[i] = g.Name
		}
		parts = append(parts, "To close the gap, work on "+strings.Join(names, ", ")+".")
	}
	if len(parts) == 0 {
		return "No skill requirements are recorded for this career yet."
	}
	return strings.Join(parts, " ")
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
