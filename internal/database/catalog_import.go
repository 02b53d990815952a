package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/khrees2412/careerpath/pkg/models"
)

// CatalogRequirement is one required skill of a catalog career. Weight is in
// [0, 1] and becomes the 0-100 importance.
type CatalogRequirement struct {
	Skill  string
	Weight float64
	Level  models.ProficiencyLevel
}

type CatalogCareer struct {
	Title        string
	Category     string
	Requirements []CatalogRequirement
}

type CatalogResource struct {
	Title    string
	URL      string
	Type     models.ResourceType
	Provider string
	Skills   []string
	Careers  []string
}

// Catalog is the default set of careers, skills and resources.
var Catalog = struct {
	Careers   []CatalogCareer
	Resources []CatalogResource
}{
	Careers: []CatalogCareer{
		{"Software Engineer", "technology", []CatalogRequirement{
			{"python", 1.0, models.ProficiencyIntermediate}, {"java", 0.7, models.ProficiencyIntermediate},
			{"data-structures", 1.0, models.ProficiencyIntermediate}, {"algorithms", 1.0, models.ProficiencyIntermediate},
			{"git", 0.8, models.ProficiencyIntermediate}, {"linux", 0.6, models.ProficiencyBeginner},
		}},
		{"Front-end Developer", "technology", []CatalogRequirement{
			{"html", 1.0, models.ProficiencyIntermediate}, {"css", 1.0, models.ProficiencyIntermediate},
			{"javascript", 1.0, models.ProficiencyIntermediate}, {"react", 0.9, models.ProficiencyBeginner},
			{"git", 0.7, models.ProficiencyBeginner}, {"design-principles", 0.5, models.ProficiencyBeginner},
		}},
		{"Back-end Developer", "technology", []CatalogRequirement{
			{"python", 1.0, models.ProficiencyIntermediate}, {"node", 0.8, models.ProficiencyBeginner},
			{"sql", 1.0, models.ProficiencyIntermediate}, {"data-structures", 0.9, models.ProficiencyIntermediate},
			{"linux", 0.8, models.ProficiencyBeginner}, {"docker", 0.6, models.ProficiencyBeginner},
		}},
		{"Data Analyst", "data", []CatalogRequirement{
			{"sql", 1.0, models.ProficiencyIntermediate}, {"spreadsheets", 1.0, models.ProficiencyIntermediate},
			{"data-analysis", 1.0, models.ProficiencyIntermediate}, {"statistics", 0.9, models.ProficiencyBeginner},
			{"powerbi", 0.7, models.ProficiencyBeginner}, {"tableau", 0.7, models.ProficiencyBeginner},
			{"python", 0.6, models.ProficiencyBeginner},
		}},
		{"Data Scientist", "data", []CatalogRequirement{
			{"python", 1.0, models.ProficiencyIntermediate}, {"statistics", 1.0, models.ProficiencyIntermediate},
			{"machine-learning", 1.0, models.ProficiencyIntermediate}, {"pandas", 0.9, models.ProficiencyIntermediate},
			{"numpy", 0.9, models.ProficiencyIntermediate}, {"sql", 0.8, models.ProficiencyBeginner},
			{"deep-learning", 0.7, models.ProficiencyBeginner},
		}},
		{"ML Engineer", "data", []CatalogRequirement{
			{"python", 1.0, models.ProficiencyIntermediate}, {"machine-learning", 1.0, models.ProficiencyIntermediate},
			{"deep-learning", 0.9, models.ProficiencyBeginner}, {"docker", 0.7, models.ProficiencyBeginner},
			{"aws", 0.7, models.ProficiencyBeginner}, {"data-structures", 0.8, models.ProficiencyIntermediate},
		}},
		{"Cloud Engineer", "technology", []CatalogRequirement{
			{"aws", 1.0, models.ProficiencyBeginner}, {"linux", 0.9, models.ProficiencyIntermediate},
			{"docker", 0.8, models.ProficiencyBeginner}, {"kubernetes", 0.8, models.ProficiencyBeginner},
			{"bash", 0.7, models.ProficiencyBeginner}, {"networking", 0.7, models.ProficiencyBeginner},
		}},
		{"Cybersecurity Analyst", "technology", []CatalogRequirement{
			{"security-basics", 1.0, models.ProficiencyBeginner}, {"networking", 1.0, models.ProficiencyBeginner},
			{"linux", 0.8, models.ProficiencyBeginner}, {"bash", 0.7, models.ProficiencyBeginner},
			{"python", 0.6, models.ProficiencyBeginner},
		}},
		{"Business Analyst", "business", []CatalogRequirement{
			{"spreadsheets", 1.0, models.ProficiencyIntermediate}, {"sql", 0.9, models.ProficiencyBeginner},
			{"communication", 1.0, models.ProficiencyIntermediate}, {"problem-solving", 1.0, models.ProficiencyIntermediate},
			{"powerbi", 0.7, models.ProficiencyBeginner},
		}},
		{"UI/UX Designer", "design", []CatalogRequirement{
			{"figma", 1.0, models.ProficiencyIntermediate}, {"design-principles", 1.0, models.ProficiencyIntermediate},
			{"ux-research", 0.9, models.ProficiencyBeginner}, {"communication", 0.8, models.ProficiencyIntermediate},
			{"html", 0.4, models.ProficiencyBeginner},
		}},
	},
	Resources: []CatalogResource{
		{"Automate the Boring Stuff with Python", "https://automatetheboringstuff.com/", models.ResourceBook, "Al Sweigart",
			[]string{"python"}, []string{"Software Engineer", "Data Analyst", "Data Scientist"}},
		{"CS50 Data Structures (Lecture)", "https://cs50.harvard.edu/x/2024/notes/5/", models.ResourceArticle, "Harvard",
			[]string{"data-structures", "algorithms"}, []string{"Software Engineer", "Back-end Developer"}},
		{"SQLBolt", "https://sqlbolt.com/", models.ResourceCourse, "SQLBolt",
			[]string{"sql"}, []string{"Data Analyst", "Back-end Developer"}},
		{"Khan Academy Statistics", "https://www.khanacademy.org/math/statistics-probability", models.ResourceCourse, "Khan Academy",
			[]string{"statistics"}, []string{"Data Scientist", "Data Analyst"}},
		{"React Docs: Learn", "https://react.dev/learn", models.ResourceArticle, "Meta",
			[]string{"react", "javascript"}, []string{"Front-end Developer"}},
		{"Figma Learn", "https://help.figma.com/hc/en-us/articles/360040514173-Get-started-with-Figma", models.ResourceArticle, "Figma",
			[]string{"figma", "design-principles"}, []string{"UI/UX Designer"}},
		{"Docker: Getting Started", "https://docs.docker.com/get-started/", models.ResourceArticle, "Docker",
			[]string{"docker"}, []string{"Back-end Developer", "ML Engineer", "Cloud Engineer"}},
		{"AWS Skill Builder", "https://explore.skillbuilder.aws/", models.ResourceCourse, "AWS",
			[]string{"aws"}, []string{"Cloud Engineer", "ML Engineer"}},
	},
}

// ImportStats counts the rows ImportCatalog created.
type ImportStats struct {
	Skills       int
	Careers      int
	Requirements int
	Resources    int
}

// ImportCatalog merges Catalog into the store in one transaction. Existing
// skills and careers are matched by slug and resources by title, so running
// it twice creates nothing the second time. Requirements are upserted.
func (s *Store) ImportCatalog(ctx context.Context) (ImportStats, error) {
	var stats ImportStats
	err := s.WithTx(ctx, func(tx *Store) error {
		skills := map[string]int64{}
		skill := func(slug string) (int64, error) {
			if id, ok := skills[slug]; ok {
				return id, nil
			}
			sk, err := tx.GetSkillBySlug(ctx, slug)
			if errors.Is(err, ErrNotFound) {
				sk = &models.Skill{Name: slug, Slug: slug}
				if err = tx.CreateSkill(ctx, sk); err == nil {
					stats.Skills++
				}
			}
			if err != nil {
				return 0, fmt.Errorf("skill %s: %w", slug, err)
			}
			skills[slug] = sk.ID
			return sk.ID, nil
		}

		careers := map[string]int64{}
		for _, cc := range Catalog.Careers {
			slug := slugify(cc.Title)
			c, err := tx.GetCareerBySlug(ctx, slug)
			if errors.Is(err, ErrNotFound) {
				c = &models.Career{Title: cc.Title, Slug: slug, Category: cc.Category}
				if err = tx.CreateCareer(ctx, c); err == nil {
					stats.Careers++
				}
			}
			if err != nil {
				return fmt.Errorf("career %s: %w", cc.Title, err)
			}
			careers[cc.Title] = c.ID

			for _, req := range cc.Requirements {
				sid, err := skill(req.Skill)
				if err != nil {
					return err
				}
				cs := &models.CareerSkill{
					CareerID:      c.ID,
					SkillID:       sid,
					Importance:    int(req.Weight*100 + 0.5),
					RequiredLevel: req.Level,
				}
				if err := tx.SetCareerSkill(ctx, cs); err != nil {
					return fmt.Errorf("requirement %s/%s: %w", cc.Title, req.Skill, err)
				}
				stats.Requirements++
			}
		}

		for _, cr := range Catalog.Resources {
			var id int64
			err := tx.queryRow(ctx, `SELECT id FROM resources WHERE title = ?`, cr.Title).Scan(&id)
			if err != nil {
				if err = classify(err); !errors.Is(err, ErrNotFound) {
					return err
				}
				r := &models.Resource{Title: cr.Title, URL: cr.URL, ResourceType: cr.Type, Provider: cr.Provider, IsFree: true}
				if err := tx.CreateResource(ctx, r); err != nil {
					return fmt.Errorf("resource %q: %w", cr.Title, err)
				}
				id = r.ID
				stats.Resources++
			}
			for _, slug := range cr.Skills {
				sid, err := skill(slug)
				if err != nil {
					return err
				}
				if err := tx.LinkResourceSkill(ctx, id, sid); err != nil {
					return err
				}
			}
			for i, title := range cr.Careers {
				cid, ok := careers[title]
				if !ok {
					continue
				}
				if err := tx.SetCareerResource(ctx, &models.CareerResource{CareerID: cid, ResourceID: id, Priority: i + 1}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("catalog import failed: %w", err)
	}
	s.log.Info("catalog imported", "skills", stats.Skills, "careers", stats.Careers,
		"requirements", stats.Requirements, "resources", stats.Resources)
	return stats, nil
}
