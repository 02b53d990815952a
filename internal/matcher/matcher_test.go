package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/careerpath/pkg/models"
)

func req(id int64, name string, importance int, level models.ProficiencyLevel) *models.CareerSkill {
	return &models.CareerSkill{
		SkillID:       id,
		Importance:    importance,
		RequiredLevel: level,
		Skill:         &models.Skill{ID: id, Name: name},
	}
}

func dataAnalyst() Career {
	return Career{
		Career: &models.Career{ID: 1, Title: "Data Analyst", Slug: "data-analyst", Category: "data"},
		Requirements: []*models.CareerSkill{
			req(1, "Python", 100, models.ProficiencyIntermediate),
			req(2, "SQL", 50, models.ProficiencyAdvanced),
		},
	}
}

func TestScore(t *testing.T) {
	data := &models.Interest{Name: "Data", Slug: "data"}
	art := &models.Interest{Name: "Art", Slug: "art"}
	analyst := &models.Interest{Name: "Numbers", Slug: "analyst"}

	tests := []struct {
		name     string
		profile  Profile
		career   Career
		expected float64
	}{
		{
			name:     "no skills",
			profile:  Profile{},
			career:   dataAnalyst(),
			expected: 0,
		},
		{
			name:     "partial coverage is weighted by importance",
			profile:  Profile{Levels: map[int64]int{1: 50, 2: 30}},
			career:   dataAnalyst(),
			expected: 80,
		},
		{
			name:     "levels above target do not overcount",
			profile:  Profile{Levels: map[int64]int{1: 100}},
			career:   dataAnalyst(),
			expected: 66.67,
		},
		{
			name:     "interest named by the category adds a bonus",
			profile:  Profile{Levels: map[int64]int{1: 50, 2: 30}, Interests: []*models.Interest{data, art}},
			career:   dataAnalyst(),
			expected: 90,
		},
		{
			name:     "interest slug matches the career slug",
			profile:  Profile{Interests: []*models.Interest{analyst}},
			career:   dataAnalyst(),
			expected: 10,
		},
		{
			name:     "bonus is capped at 100",
			profile:  Profile{Levels: map[int64]int{1: 90, 2: 90}, Interests: []*models.Interest{data, analyst}},
			career:   dataAnalyst(),
			expected: 100,
		},
		{
			name:    "unset proficiency targets the midpoint",
			profile: Profile{Levels: map[int64]int{7: 25}},
			career: Career{
				Career:       &models.Career{Title: "Biologist"},
				Requirements: []*models.CareerSkill{req(7, "Biology", 80, "")},
			},
			expected: 50,
		},
		{
			name:     "career without requirements",
			profile:  Profile{Levels: map[int64]int{1: 100}},
			career:   Career{Career: &models.Career{Title: "Poet"}},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Score(tt.profile, tt.career), 0.001)
		})
	}
}

func TestGap(t *testing.T) {
	c := dataAnalyst()
	c.Requirements = append(c.Requirements, req(3, "Excel", 50, models.ProficiencyBeginner))

	gaps := Gap(Profile{Levels: map[int64]int{1: 50, 2: 30}}, c)
	require.Len(t, gaps, 2)
	assert.Equal(t, "Excel", gaps[0].Name)
	assert.Equal(t, 0, gaps[0].Have)
	assert.Equal(t, 25, gaps[0].Target)
	assert.Equal(t, "SQL", gaps[1].Name)
	assert.Equal(t, 30, gaps[1].Have)
	assert.Equal(t, 75, gaps[1].Target)

	assert.Empty(t, Gap(Profile{Levels: map[int64]int{1: 60, 2: 80, 3: 25}}, c))
}

func TestRank(t *testing.T) {
	designer := Career{
		Career:       &models.Career{ID: 2, Title: "Designer"},
		Requirements: []*models.CareerSkill{req(9, "Figma", 100, models.ProficiencyBeginner)},
	}
	engineer := Career{
		Career:       &models.Career{ID: 3, Title: "Engineer"},
		Requirements: []*models.CareerSkill{req(1, "Python", 100, models.ProficiencyIntermediate)},
	}
	careers := []Career{dataAnalyst(), designer, engineer}

	t.Run("orders by score and drops zeros", func(t *testing.T) {
		ranked := Rank(Profile{Levels: map[int64]int{1: 50, 2: 30}}, careers, 0)
		require.Len(t, ranked, 2)
		assert.Equal(t, int64(3), ranked[0].Career.ID)
		assert.Equal(t, 100.0, ranked[0].Score)
		assert.Equal(t, int64(1), ranked[1].Career.ID)
	})

	t.Run("limit", func(t *testing.T) {
		ranked := Rank(Profile{Levels: map[int64]int{1: 50, 2: 30}}, careers, 1)
		require.Len(t, ranked, 1)
		assert.Equal(t, int64(3), ranked[0].Career.ID)
	})

	t.Run("falls back to the first careers", func(t *testing.T) {
		ranked := Rank(Profile{}, careers, 2)
		require.Len(t, ranked, 2)
		assert.Equal(t, int64(1), ranked[0].Career.ID)
		assert.Equal(t, int64(2), ranked[1].Career.ID)
		assert.Zero(t, ranked[0].Score)
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Empty(t, Rank(Profile{}, nil, 5))
	})
}

func TestRationale(t *testing.T) {
	m := Evaluate(Profile{
		Levels:    map[int64]int{1: 50, 2: 30},
		Interests: []*models.Interest{{Name: "Data", Slug: "data"}},
	}, dataAnalyst())

	text := Rationale(m)
	assert.Contains(t, text, "You already have Python.")
	assert.Contains(t, text, "Matches your interest in Data.")
	assert.Contains(t, text, "work on SQL.")

	assert.Equal(t, "No skill requirements are recorded for this career yet.",
		Rationale(Evaluate(Profile{}, Career{Career: &models.Career{Title: "Poet"}})))
}

func TestNewProfile(t *testing.T) {
	p := NewProfile([]*models.UserSkill{{SkillID: 1, Level: 40}, {SkillID: 2, Level: 10}}, nil)
	assert.Equal(t, map[int64]int{1: 40, 2: 10}, p.Levels)
}
