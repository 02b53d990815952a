package database

import (
	"context"
	"database/sql"

	"github.com/khrees2412/careerpath/pkg/models"
)

// Career operations

const careerColumns = `id, title, slug, COALESCE(overview, ''), COALESCE(category, ''),
	COALESCE(typical_education, ''), COALESCE(median_salary, 0), COALESCE(growth_rate, 0),
	COALESCE(demand_level, ''), created_at`

func scanCareer(row scanner) (*models.Career, error) {
	c := &models.Career{}
	var demand string
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Overview, &c.Category, &c.TypicalEducation,
		&c.MedianSalary, &c.GrowthRate, &demand, ts(&c.CreatedAt))
	if err != nil {
		return nil, classify(err)
	}
	c.DemandLevel = models.DemandLevel(demand)
	return c, nil
}

func (s *Store) CreateCareer(ctx context.Context, c *models.Career) error {
	if err := deriveSlug(&c.Slug, c.Title); err != nil {
		return err
	}
	c.CreatedAt = s.timestamp(c.CreatedAt)

	var salary, growth any
	if c.MedianSalary != 0 {
		salary = c.MedianSalary
	}
	if c.GrowthRate != 0 {
		growth = c.GrowthRate
	}

	query := `INSERT INTO careers (title, slug, overview, category, typical_education, median_salary,
			  growth_rate, demand_level, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, c.Title, c.Slug, nullIfEmpty(c.Overview), nullIfEmpty(c.Category),
		nullIfEmpty(c.TypicalEducation), salary, growth, nullIfEmpty(string(c.DemandLevel)), c.CreatedAt)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (s *Store) GetCareer(ctx context.Context, id int64) (*models.Career, error) {
	return scanCareer(s.queryRow(ctx, `SELECT `+careerColumns+` FROM careers WHERE id = ?`, id))
}

func (s *Store) GetCareerBySlug(ctx context.Context, slug string) (*models.Career, error) {
	return scanCareer(s.queryRow(ctx, `SELECT `+careerColumns+` FROM careers WHERE slug = ?`, slug))
}

func (s *Store) ListCareers(ctx context.Context) ([]*models.Career, error) {
	rows, err := s.query(ctx, `SELECT `+careerColumns+` FROM careers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Career{}
	for rows.Next() {
		c, err := scanCareer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, classify(rows.Err())
}

// DeleteCareer removes a career with its skill, resource, stream and program
// links and its recommendations. Roadmaps toward it are kept, detached.
func (s *Store) DeleteCareer(ctx context.Context, id int64) error {
	return s.execOne(ctx, "career", `DELETE FROM careers WHERE id = ?`, id)
}

// SetCareerSkill adds or reweights a required skill of a career.
func (s *Store) SetCareerSkill(ctx context.Context, cs *models.CareerSkill) error {
	query := `INSERT INTO career_skills (career_id, skill_id, importance, required_level)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT (career_id, skill_id) DO UPDATE SET
			  importance = excluded.importance, required_level = excluded.required_level`
	_, err := s.exec(ctx, query, cs.CareerID, cs.SkillID, cs.Importance, nullIfEmpty(string(cs.RequiredLevel)))
	return err
}

// CareerSkills returns the required skills of a career, most important first.
func (s *Store) CareerSkills(ctx context.Context, careerID int64) ([]*models.CareerSkill, error) {
	query := `SELECT cs.career_id, cs.skill_id, cs.importance, COALESCE(cs.required_level, ''),
			  sk.id, sk.name, sk.slug, COALESCE(sk.category, ''), COALESCE(sk.description, '')
			  FROM career_skills cs JOIN skills sk ON sk.id = cs.skill_id
			  WHERE cs.career_id = ? ORDER BY cs.importance DESC, sk.name`
	rows, err := s.query(ctx, query, careerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.CareerSkill{}
	for rows.Next() {
		cs := &models.CareerSkill{Skill: &models.Skill{}}
		var level string
		if err := rows.Scan(&cs.CareerID, &cs.SkillID, &cs.Importance, &level,
			&cs.Skill.ID, &cs.Skill.Name, &cs.Skill.Slug, &cs.Skill.Category, &cs.Skill.Description); err != nil {
			return nil, err
		}
		cs.RequiredLevel = models.ProficiencyLevel(level)
		out = append(out, cs)
	}
	return out, classify(rows.Err())
}

// Resource operations

const resourceColumns = `r.id, r.title, COALESCE(r.url, ''), r.resource_type, COALESCE(r.provider, ''),
	COALESCE(r.description, ''), r.is_free, r.metadata, r.created_at`

func scanResource(row scanner) (*models.Resource, error) {
	r := &models.Resource{}
	var kind string
	err := row.Scan(&r.ID, &r.Title, &r.URL, &kind, &r.Provider, &r.Description, &r.IsFree,
		&r.Metadata, ts(&r.CreatedAt))
	if err != nil {
		return nil, classify(err)
	}
	r.ResourceType = models.ResourceType(kind)
	return r, nil
}

// CreateResource inserts learning material. The type must be one of the
// resource types; the metadata, when set, must be valid JSON.
func (s *Store) CreateResource(ctx context.Context, r *models.Resource) error {
	r.CreatedAt = s.timestamp(r.CreatedAt)
	query := `INSERT INTO resources (title, url, resource_type, provider, description, is_free, metadata, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, r.Title, nullIfEmpty(r.URL), string(r.ResourceType),
		nullIfEmpty(r.Provider), nullIfEmpty(r.Description), r.IsFree, r.Metadata, r.CreatedAt)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *Store) GetResource(ctx context.Context, id int64) (*models.Resource, error) {
	return scanResource(s.queryRow(ctx, `SELECT `+resourceColumns+` FROM resources r WHERE r.id = ?`, id))
}

func (s *Store) LinkResourceSkill(ctx context.Context, resourceID, skillID int64) error {
	_, err := s.exec(ctx, `INSERT INTO resource_skills (resource_id, skill_id) VALUES (?, ?)
			  ON CONFLICT (resource_id, skill_id) DO NOTHING`, resourceID, skillID)
	return err
}

// ResourcesForSkill returns the resources that teach a skill, free ones first.
func (s *Store) ResourcesForSkill(ctx context.Context, skillID int64) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources r
			  JOIN resource_skills rs ON rs.resource_id = r.id
			  WHERE rs.skill_id = ? ORDER BY r.is_free DESC, r.id`
	return s.listResources(ctx, query, skillID)
}

func (s *Store) listResources(ctx context.Context, query string, args ...any) ([]*models.Resource, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, classify(rows.Err())
}

// SkillResources returns the resources linked to any skill the career
// requires, each once, leaving out those already in its curated list.
func (s *Store) SkillResources(ctx context.Context, careerID int64) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources r
			  WHERE r.id IN (SELECT rs.resource_id FROM resource_skills rs
			                 JOIN career_skills cs ON cs.skill_id = rs.skill_id
			                 WHERE cs.career_id = ?)
			  AND r.id NOT IN (SELECT resource_id FROM career_resources WHERE career_id = ?)
			  ORDER BY r.is_free DESC, r.id`
	return s.listResources(ctx, query, careerID, careerID)
}

// SetCareerResource places a resource in a career's list at priority.
func (s *Store) SetCareerResource(ctx context.Context, cr *models.CareerResource) error {
	query := `INSERT INTO career_resources (career_id, resource_id, priority) VALUES (?, ?, ?)
			  ON CONFLICT (career_id, resource_id) DO UPDATE SET priority = excluded.priority`
	_, err := s.exec(ctx, query, cr.CareerID, cr.ResourceID, cr.Priority)
	return err
}

// CareerResources returns a career's recommended resources in priority order.
func (s *Store) CareerResources(ctx context.Context, careerID int64) ([]*models.CareerResource, error) {
	query := `SELECT cr.career_id, cr.resource_id, cr.priority, ` + resourceColumns + `
			  FROM career_resources cr JOIN resources r ON r.id = cr.resource_id
			  WHERE cr.career_id = ? ORDER BY cr.priority, r.id`
	rows, err := s.query(ctx, query, careerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.CareerResource{}
	for rows.Next() {
		cr := &models.CareerResource{Resource: &models.Resource{}}
		r := cr.Resource
		var kind string
		if err := rows.Scan(&cr.CareerID, &cr.ResourceID, &cr.Priority,
			&r.ID, &r.Title, &r.URL, &kind, &r.Provider, &r.Description, &r.IsFree,
			&r.Metadata, ts(&r.CreatedAt)); err != nil {
			return nil, err
		}
		r.ResourceType = models.ResourceType(kind)
		out = append(out, cr)
	}
	return out, classify(rows.Err())
}

// Education pathway operations

func (s *Store) CreateStream(ctx context.Context, es *models.EducationStream) error {
	if err := deriveSlug(&es.Slug, es.Name); err != nil {
		return err
	}
	id, err := s.insert(ctx, `INSERT INTO education_streams (name, slug, description) VALUES (?, ?, ?)`,
		es.Name, es.Slug, nullIfEmpty(es.Description))
	if err != nil {
		return err
	}
	es.ID = id
	return nil
}

func (s *Store) CreateInstitution(ctx context.Context, in *models.Institution) error {
	if err := deriveSlug(&in.Slug, in.Name); err != nil {
		return err
	}
	id, err := s.insert(ctx, `INSERT INTO institutions (name, slug, location, website) VALUES (?, ?, ?, ?)`,
		in.Name, in.Slug, nullIfEmpty(in.Location), nullIfEmpty(in.Website))
	if err != nil {
		return err
	}
	in.ID = id
	return nil
}

func (s *Store) CreateProgram(ctx context.Context, p *models.Program) error {
	query := `INSERT INTO programs (institution_id, stream_id, name, degree_level, duration_months)
			  VALUES (?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, p.InstitutionID, nullID(p.StreamID), p.Name,
		nullIfEmpty(p.DegreeLevel), p.DurationMonths)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (s *Store) GetProgram(ctx context.Context, id int64) (*models.Program, error) {
	p := &models.Program{}
	var stream sql.NullInt64
	err := s.queryRow(ctx, `SELECT id, institution_id, stream_id, name, COALESCE(degree_level, ''), duration_months
			  FROM programs WHERE id = ?`, id).
		Scan(&p.ID, &p.InstitutionID, &stream, &p.Name, &p.DegreeLevel, &p.DurationMonths)
	if err != nil {
		return nil, classify(err)
	}
	p.StreamID = int64Ptr(stream)
	return p, nil
}

func (s *Store) DeleteStream(ctx context.Context, id int64) error {
	return s.execOne(ctx, "education stream", `DELETE FROM education_streams WHERE id = ?`, id)
}

func (s *Store) LinkCareerStream(ctx context.Context, careerID, streamID int64) error {
	_, err := s.exec(ctx, `INSERT INTO career_streams (career_id, stream_id) VALUES (?, ?)
			  ON CONFLICT (career_id, stream_id) DO NOTHING`, careerID, streamID)
	return err
}

func (s *Store) LinkCareerProgram(ctx context.Context, careerID, programID int64) error {
	_, err := s.exec(ctx, `INSERT INTO career_programs (career_id, program_id) VALUES (?, ?)
			  ON CONFLICT (career_id, program_id) DO NOTHING`, careerID, programID)
	return err
}

// CareerStreams returns the education streams that lead to a career.
func (s *Store) CareerStreams(ctx context.Context, careerID int64) ([]*models.EducationStream, error) {
	query := `SELECT es.id, es.name, es.slug, COALESCE(es.description, '')
			  FROM education_streams es JOIN career_streams cs ON cs.stream_id = es.id
			  WHERE cs.career_id = ? ORDER BY es.name`
	rows, err := s.query(ctx, query, careerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.EducationStream{}
	for rows.Next() {
		es := &models.EducationStream{}
		if err := rows.Scan(&es.ID, &es.Name, &es.Slug, &es.Description); err != nil {
			return nil, err
		}
		out = append(out, es)
	}
	return out, classify(rows.Err())
}

// CareerPrograms returns the programs linked to a career with their institution name.
func (s *Store) CareerPrograms(ctx context.Context, careerID int64) ([]*models.Program, []string, error) {
	query := `SELECT p.id, p.institution_id, p.stream_id, p.name, COALESCE(p.degree_level, ''),
			  p.duration_months, i.name
			  FROM programs p
			  JOIN career_programs cp ON cp.program_id = p.id
			  JOIN institutions i ON i.id = p.institution_id
			  WHERE cp.career_id = ? ORDER BY i.name, p.name`
	rows, err := s.query(ctx, query, careerID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var programs []*models.Program
	var institutions []string
	for rows.Next() {
		p := &models.Program{}
		var stream sql.NullInt64
		var inst string
		if err := rows.Scan(&p.ID, &p.InstitutionID, &stream, &p.Name, &p.DegreeLevel,
			&p.DurationMonths, &inst); err != nil {
			return nil, nil, err
		}
		p.StreamID = int64Ptr(stream)
		programs = append(programs, p)
		institutions = append(institutions, inst)
	}
	return programs, institutions, classify(rows.Err())
}
