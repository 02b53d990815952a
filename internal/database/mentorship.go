package database

import (
	"context"
	"fmt"

	"github.com/khrees2412/careerpath/pkg/models"
)

// Mentor operations

// CreateMentor registers a user as a mentor. A user can be registered once.
func (s *Store) CreateMentor(ctx context.Context, m *models.Mentor) error {
	m.CreatedAt = s.timestamp(m.CreatedAt)
	query := `INSERT INTO mentors (user_id, expertise, bio, years_experience, is_available, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, m.UserID, nullIfEmpty(m.Expertise), nullIfEmpty(m.Bio),
		m.YearsExperience, m.IsAvailable, m.CreatedAt)
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

const mentorColumns = `id, user_id, COALESCE(expertise, ''), COALESCE(bio, ''), years_experience, is_available, created_at`

func scanMentor(row scanner) (*models.Mentor, error) {
	m := &models.Mentor{}
	if err := row.Scan(&m.ID, &m.UserID, &m.Expertise, &m.Bio, &m.YearsExperience, &m.IsAvailable,
		ts(&m.CreatedAt)); err != nil {
		return nil, classify(err)
	}
	return m, nil
}

func (s *Store) GetMentor(ctx context.Context, id int64) (*models.Mentor, error) {
	return scanMentor(s.queryRow(ctx, `SELECT `+mentorColumns+` FROM mentors WHERE id = ?`, id))
}

func (s *Store) GetMentorByUser(ctx context.Context, userID int64) (*models.Mentor, error) {
	return scanMentor(s.queryRow(ctx, `SELECT `+mentorColumns+` FROM mentors WHERE user_id = ?`, userID))
}

// AvailableMentors lists mentors accepting students, most experienced first.
func (s *Store) AvailableMentors(ctx context.Context) ([]*models.Mentor, error) {
	rows, err := s.query(ctx, `SELECT `+mentorColumns+` FROM mentors WHERE is_available = ?
			  ORDER BY years_experience DESC, id`, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Mentor{}
	for rows.Next() {
		m, err := scanMentor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, classify(rows.Err())
}

func (s *Store) SetMentorAvailable(ctx context.Context, id int64, available bool) error {
	return s.execOne(ctx, "mentor", `UPDATE mentors SET is_available = ? WHERE id = ?`, available, id)
}

// Connection operations

// RequestConnection opens a Pending connection between a student and a mentor.
func (s *Store) RequestConnection(ctx context.Context, c *models.StudentMentorConnection) error {
	c.Status = models.ConnectionPending
	c.RequestedAt = s.timestamp(c.RequestedAt)
	c.RespondedAt = nil
	c.CompletedAt = nil
	query := `INSERT INTO student_mentor_connections (student_id, mentor_id, status, requested_at)
			  VALUES (?, ?, ?, ?)`
	id, err := s.insert(ctx, query, c.StudentID, c.MentorID, string(c.Status), c.RequestedAt)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

const connectionColumns = `id, student_id, mentor_id, status, requested_at, responded_at, completed_at`

func scanConnection(row scanner) (*models.StudentMentorConnection, error) {
	c := &models.StudentMentorConnection{}
	var status string
	if err := row.Scan(&c.ID, &c.StudentID, &c.MentorID, &status, ts(&c.RequestedAt),
		nullTS(&c.RespondedAt), nullTS(&c.CompletedAt)); err != nil {
		return nil, classify(err)
	}
	c.Status = models.ConnectionStatus(status)
	return c, nil
}

func (s *Store) GetConnection(ctx context.Context, id int64) (*models.StudentMentorConnection, error) {
	return scanConnection(s.queryRow(ctx, `SELECT `+connectionColumns+` FROM student_mentor_connections WHERE id = ?`, id))
}

// MentorConnections lists a mentor's connections, optionally in one status.
func (s *Store) MentorConnections(ctx context.Context, mentorID int64, status models.ConnectionStatus) ([]*models.StudentMentorConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM student_mentor_connections WHERE mentor_id = ?`
	args := []any{mentorID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY requested_at, id`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.StudentMentorConnection{}
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, classify(rows.Err())
}

// TransitionConnection moves a connection to next. The update only applies
// while the row is still in a state that may reach next, so two racing
// callers cannot both succeed. An unreachable state is ErrInvalidTransition.
func (s *Store) TransitionConnection(ctx context.Context, id int64, next models.ConnectionStatus) (*models.StudentMentorConnection, error) {
	var from models.ConnectionStatus
	var query string
	now := s.now()
	switch next {
	case models.ConnectionAccepted, models.ConnectionRejected:
		from = models.ConnectionPending
		query = `UPDATE student_mentor_connections SET status = ?, responded_at = ? WHERE id = ? AND status = ?`
	case models.ConnectionCompleted:
		from = models.ConnectionAccepted
		query = `UPDATE student_mentor_connections SET status = ?, completed_at = ? WHERE id = ? AND status = ?`
	default:
		return nil, &Error{Kind: ErrInvalidTransition, Err: fmt.Errorf("cannot move a connection to %q", next)}
	}

	var out *models.StudentMentorConnection
	err := s.WithTx(ctx, func(tx *Store) error {
		res, err := tx.exec(ctx, query, string(next), now, id, string(from))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		current, err := tx.GetConnection(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return &Error{
				Kind: ErrInvalidTransition,
				Err:  fmt.Errorf("connection %d is %s, cannot move to %s", id, current.Status, next),
			}
		}
		out = current
		return nil
	})
	return out, err
}

// Badge operations

func (s *Store) CreateBadge(ctx context.Context, b *models.Badge) error {
	if err := deriveSlug(&b.Slug, b.Name); err != nil {
		return err
	}
	id, err := s.insert(ctx, `INSERT INTO badges (name, slug, description, icon_url, points) VALUES (?, ?, ?, ?, ?)`,
		b.Name, b.Slug, nullIfEmpty(b.Description), nullIfEmpty(b.IconURL), b.Points)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (s *Store) GetBadgeBySlug(ctx context.Context, slug string) (*models.Badge, error) {
	b := &models.Badge{}
	err := s.queryRow(ctx, `SELECT id, name, slug, COALESCE(description, ''), COALESCE(icon_url, ''), points
			  FROM badges WHERE slug = ?`, slug).
		Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.IconURL, &b.Points)
	if err != nil {
		return nil, classify(err)
	}
	return b, nil
}

// AwardBadge gives a badge to a student. Awarding it twice is an
// ErrIntegrityViolation.
func (s *Store) AwardBadge(ctx context.Context, sb *models.StudentBadge) error {
	sb.AwardedAt = s.timestamp(sb.AwardedAt)
	_, err := s.exec(ctx, `INSERT INTO student_badges (student_id, badge_id, awarded_at) VALUES (?, ?, ?)`,
		sb.StudentID, sb.BadgeID, sb.AwardedAt)
	return err
}

// StudentBadges returns the badges of a student and their total points.
func (s *Store) StudentBadges(ctx context.Context, studentID int64) ([]*models.Badge, int, error) {
	query := `SELECT b.id, b.name, b.slug, COALESCE(b.description, ''), COALESCE(b.icon_url, ''), b.points
			  FROM badges b JOIN student_badges sb ON sb.badge_id = b.id
			  WHERE sb.student_id = ? ORDER BY sb.awarded_at, b.id`
	rows, err := s.query(ctx, query, studentID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Badge
	total := 0
	for rows.Next() {
		b := &models.Badge{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.IconURL, &b.Points); err != nil {
			return nil, 0, err
		}
		total += b.Points
		out = append(out, b)
	}
	return out, total, classify(rows.Err())
}
