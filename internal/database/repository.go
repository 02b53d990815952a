package database

import (
	"context"
	"strings"
	"time"

	"github.com/khrees2412/careerpath/pkg/models"
)

// User operations

const userColumns = `id, username, email, password_hash, role, is_active, last_login, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.IsActive,
		nullTS(&u.LastLogin), ts(&u.CreatedAt), ts(&u.UpdatedAt))
	if err != nil {
		return nil, classify(err)
	}
	u.Role = models.Role(role)
	return u, nil
}

// CreateUser inserts an active user. The email is stored lowercased; the
// role defaults to student. A taken email or username is an
// ErrIntegrityViolation.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = s.timestamp(u.CreatedAt)
	u.UpdatedAt = u.CreatedAt
	u.IsActive = true

	query := `INSERT INTO users (username, email, password_hash, role, is_active, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, u.Username, u.Email, u.PasswordHash, string(u.Role),
		u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// ListUsers returns all users, optionally only those with role.
func (s *Store) ListUsers(ctx context.Context, role models.Role) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, string(role))
	}
	query += ` ORDER BY id`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, classify(rows.Err())
}

func (s *Store) SetUserActive(ctx context.Context, id int64, active bool) error {
	return s.execOne(ctx, "user", `UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, s.now(), id)
}

func (s *Store) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return s.execOne(ctx, "user", `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, s.now(), id)
}

// TouchLogin records a login at the current time.
func (s *Store) TouchLogin(ctx context.Context, id int64) error {
	return s.execOne(ctx, "user", `UPDATE users SET last_login = ? WHERE id = ?`, s.now(), id)
}

// DeleteUser removes the user. Owned rows go with it in the same statement;
// messages, uploads, assignments and audit entries keep their row with the
// user reference set to NULL.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.execOne(ctx, "user", `DELETE FROM users WHERE id = ?`, id)
}

// Profile operations

// UpsertProfile creates or replaces the profile of p.UserID.
func (s *Store) UpsertProfile(ctx context.Context, p *models.Profile) error {
	p.UpdatedAt = s.timestamp(p.UpdatedAt)
	query := `INSERT INTO profiles (user_id, first_name, last_name, date_of_birth, gender, location,
			  bio, grade_level, career_goals, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT (user_id) DO UPDATE SET
			  first_name = excluded.first_name, last_name = excluded.last_name,
			  date_of_birth = excluded.date_of_birth, gender = excluded.gender,
			  location = excluded.location, bio = excluded.bio, grade_level = excluded.grade_level,
			  career_goals = excluded.career_goals, updated_at = excluded.updated_at`
	_, err := s.exec(ctx, query, p.UserID, nullIfEmpty(p.FirstName), nullIfEmpty(p.LastName),
		dateValue(p.DateOfBirth), nullIfEmpty(p.Gender), nullIfEmpty(p.Location), nullIfEmpty(p.Bio),
		nullIfEmpty(p.GradeLevel), nullIfEmpty(p.CareerGoals), p.UpdatedAt)
	return err
}

func (s *Store) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `SELECT user_id, COALESCE(first_name, ''), COALESCE(last_name, ''), date_of_birth,
			  COALESCE(gender, ''), COALESCE(location, ''), COALESCE(bio, ''),
			  COALESCE(grade_level, ''), COALESCE(career_goals, ''), updated_at
			  FROM profiles WHERE user_id = ?`
	p := &models.Profile{}
	err := s.queryRow(ctx, query, userID).Scan(&p.UserID, &p.FirstName, &p.LastName,
		nullTS(&p.DateOfBirth), &p.Gender, &p.Location, &p.Bio, &p.GradeLevel, &p.CareerGoals,
		ts(&p.UpdatedAt))
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

// Interest operations

// CreateInterest inserts a vocabulary entry, deriving the slug from the name
// when it is empty.
func (s *Store) CreateInterest(ctx context.Context, in *models.Interest) error {
	if err := deriveSlug(&in.Slug, in.Name); err != nil {
		return err
	}
	id, err := s.insert(ctx, `INSERT INTO interests (name, slug, description) VALUES (?, ?, ?)`,
		in.Name, in.Slug, nullIfEmpty(in.Description))
	if err != nil {
		return err
	}
	in.ID = id
	return nil
}

func (s *Store) GetInterestBySlug(ctx context.Context, slug string) (*models.Interest, error) {
	in := &models.Interest{}
	err := s.queryRow(ctx, `SELECT id, name, slug, COALESCE(description, '') FROM interests WHERE slug = ?`, slug).
		Scan(&in.ID, &in.Name, &in.Slug, &in.Description)
	if err != nil {
		return nil, classify(err)
	}
	return in, nil
}

func (s *Store) ListInterests(ctx context.Context) ([]*models.Interest, error) {
	rows, err := s.query(ctx, `SELECT id, name, slug, COALESCE(description, '') FROM interests ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Interest{}
	for rows.Next() {
		in := &models.Interest{}
		if err := rows.Scan(&in.ID, &in.Name, &in.Slug, &in.Description); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, classify(rows.Err())
}

// SetUserInterest declares or re-declares an interest of a user. The pair is
// unique; a second call overwrites the confidence.
func (s *Store) SetUserInterest(ctx context.Context, ui *models.UserInterest) error {
	ui.CreatedAt = s.timestamp(ui.CreatedAt)
	query := `INSERT INTO user_interests (user_id, interest_id, confidence, created_at)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT (user_id, interest_id) DO UPDATE SET confidence = excluded.confidence`
	_, err := s.exec(ctx, query, ui.UserID, ui.InterestID, ui.Confidence, ui.CreatedAt)
	return err
}

func (s *Store) RemoveUserInterest(ctx context.Context, userID, interestID int64) error {
	return s.execOne(ctx, "user interest",
		`DELETE FROM user_interests WHERE user_id = ? AND interest_id = ?`, userID, interestID)
}

// UserInterests returns the interests of a user with their vocabulary entry.
func (s *Store) UserInterests(ctx context.Context, userID int64) ([]*models.UserInterest, []*models.Interest, error) {
	query := `SELECT ui.user_id, ui.interest_id, ui.confidence, ui.created_at,
			  i.id, i.name, i.slug, COALESCE(i.description, '')
			  FROM user_interests ui JOIN interests i ON i.id = ui.interest_id
			  WHERE ui.user_id = ? ORDER BY ui.confidence DESC, i.name`
	rows, err := s.query(ctx, query, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var links []*models.UserInterest
	var vocab []*models.Interest
	for rows.Next() {
		ui := &models.UserInterest{}
		in := &models.Interest{}
		if err := rows.Scan(&ui.UserID, &ui.InterestID, &ui.Confidence, ts(&ui.CreatedAt),
			&in.ID, &in.Name, &in.Slug, &in.Description); err != nil {
			return nil, nil, err
		}
		links = append(links, ui)
		vocab = append(vocab, in)
	}
	return links, vocab, classify(rows.Err())
}

// Skill operations

func (s *Store) CreateSkill(ctx context.Context, sk *models.Skill) error {
	if err := deriveSlug(&sk.Slug, sk.Name); err != nil {
		return err
	}
	id, err := s.insert(ctx, `INSERT INTO skills (name, slug, category, description) VALUES (?, ?, ?, ?)`,
		sk.Name, sk.Slug, nullIfEmpty(sk.Category), nullIfEmpty(sk.Description))
	if err != nil {
		return err
	}
	sk.ID = id
	return nil
}

const skillColumns = `id, name, slug, COALESCE(category, ''), COALESCE(description, '')`

func scanSkill(row scanner) (*models.Skill, error) {
	sk := &models.Skill{}
	if err := row.Scan(&sk.ID, &sk.Name, &sk.Slug, &sk.Category, &sk.Description); err != nil {
		return nil, classify(err)
	}
	return sk, nil
}

func (s *Store) GetSkill(ctx context.Context, id int64) (*models.Skill, error) {
	return scanSkill(s.queryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = ?`, id))
}

func (s *Store) GetSkillBySlug(ctx context.Context, slug string) (*models.Skill, error) {
	return scanSkill(s.queryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE slug = ?`, slug))
}

func (s *Store) ListSkills(ctx context.Context) ([]*models.Skill, error) {
	rows, err := s.query(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Skill{}
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	return out, classify(rows.Err())
}

// SetUserSkill declares or re-declares a skill of a user. A second call for
// the same pair overwrites level, proficiency and experience.
func (s *Store) SetUserSkill(ctx context.Context, us *models.UserSkill) error {
	us.UpdatedAt = s.timestamp(us.UpdatedAt)
	query := `INSERT INTO user_skills (user_id, skill_id, level, proficiency, years_experience, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT (user_id, skill_id) DO UPDATE SET
			  level = excluded.level, proficiency = excluded.proficiency,
			  years_experience = excluded.years_experience, updated_at = excluded.updated_at`
	_, err := s.exec(ctx, query, us.UserID, us.SkillID, us.Level, nullIfEmpty(string(us.Proficiency)),
		us.YearsExperience, us.UpdatedAt)
	return err
}

func (s *Store) RemoveUserSkill(ctx context.Context, userID, skillID int64) error {
	return s.execOne(ctx, "user skill",
		`DELETE FROM user_skills WHERE user_id = ? AND skill_id = ?`, userID, skillID)
}

// UserSkills returns the skills of a user ordered by skill id.
func (s *Store) UserSkills(ctx context.Context, userID int64) ([]*models.UserSkill, error) {
	query := `SELECT user_id, skill_id, level, COALESCE(proficiency, ''), years_experience, updated_at
			  FROM user_skills WHERE user_id = ? ORDER BY skill_id`
	rows, err := s.query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.UserSkill{}
	for rows.Next() {
		us := &models.UserSkill{}
		var prof string
		if err := rows.Scan(&us.UserID, &us.SkillID, &us.Level, &prof, &us.YearsExperience,
			ts(&us.UpdatedAt)); err != nil {
			return nil, err
		}
		us.Proficiency = models.ProficiencyLevel(prof)
		out = append(out, us)
	}
	return out, classify(rows.Err())
}

func dateValue(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format("2006-01-02")
}
