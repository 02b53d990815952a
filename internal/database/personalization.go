package database

import (
	"context"
	"database/sql"

	"github.com/khrees2412/careerpath/pkg/models"
)

// Recommendation operations

// CreateRecommendation appends a recommendation. Earlier rows for the same
// pair are kept as history.
func (s *Store) CreateRecommendation(ctx context.Context, r *models.Recommendation) error {
	if r.Source == "" {
		r.Source = models.ProvenanceRuleBased
	}
	r.CreatedAt = s.timestamp(r.CreatedAt)
	query := `INSERT INTO recommendations (user_id, career_id, stream_id, score, rationale, source, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, r.UserID, nullID(r.CareerID), nullID(r.StreamID), r.Score,
		nullIfEmpty(r.Rationale), string(r.Source), r.CreatedAt)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// Recommendations returns every recommendation of a user, newest first.
func (s *Store) Recommendations(ctx context.Context, userID int64) ([]*models.Recommendation, error) {
	query := `SELECT id, user_id, career_id, stream_id, score, COALESCE(rationale, ''), source, created_at
			  FROM recommendations WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := s.query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Recommendation{}
	for rows.Next() {
		r := &models.Recommendation{}
		var career, stream sql.NullInt64
		var source string
		if err := rows.Scan(&r.ID, &r.UserID, &career, &stream, &r.Score, &r.Rationale, &source,
			ts(&r.CreatedAt)); err != nil {
			return nil, err
		}
		r.CareerID = int64Ptr(career)
		r.StreamID = int64Ptr(stream)
		r.Source = models.Provenance(source)
		out = append(out, r)
	}
	return out, classify(rows.Err())
}

// LatestRecommendations reads the latest_recommendations view: one row per
// career the user has been recommended, the most recent one. When two rows
// of a pair share the latest timestamp, which one is returned is unspecified.
// Results are ordered by score, highest first.
func (s *Store) LatestRecommendations(ctx context.Context, userID int64) ([]*models.LatestRecommendation, error) {
	query := `SELECT id, user_id, career_id, career_title, score, COALESCE(rationale, ''), source, created_at
			  FROM latest_recommendations WHERE user_id = ? ORDER BY score DESC, career_id`
	rows, err := s.query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.LatestRecommendation{}
	for rows.Next() {
		r := &models.LatestRecommendation{}
		var source string
		if err := rows.Scan(&r.ID, &r.UserID, &r.CareerID, &r.CareerTitle, &r.Score, &r.Rationale,
			&source, ts(&r.CreatedAt)); err != nil {
			return nil, err
		}
		r.Source = models.Provenance(source)
		out = append(out, r)
	}
	return out, classify(rows.Err())
}

// Roadmap operations

// CreateRoadmap inserts a roadmap and its steps in one transaction. Each
// step's user and roadmap are taken from rm. Two steps sharing an order are
// an ErrIntegrityViolation and nothing is written.
func (s *Store) CreateRoadmap(ctx context.Context, rm *models.Roadmap, steps []*models.RoadmapStep) error {
	return s.WithTx(ctx, func(tx *Store) error {
		rm.CreatedAt = tx.timestamp(rm.CreatedAt)
		id, err := tx.insert(ctx, `INSERT INTO roadmaps (user_id, career_id, title, created_at) VALUES (?, ?, ?, ?)`,
			rm.UserID, nullID(rm.CareerID), rm.Title, rm.CreatedAt)
		if err != nil {
			return err
		}
		rm.ID = id

		for _, st := range steps {
			st.UserID = rm.UserID
			st.RoadmapID = rm.ID
			if err := tx.AddRoadmapStep(ctx, st); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddRoadmapStep appends one step. step_order is unique per user and roadmap.
func (s *Store) AddRoadmapStep(ctx context.Context, st *models.RoadmapStep) error {
	st.CreatedAt = s.timestamp(st.CreatedAt)
	query := `INSERT INTO roadmap_steps (user_id, roadmap_id, step_order, title, description, resource_id,
			  is_done, due_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, st.UserID, st.RoadmapID, st.StepOrder, st.Title,
		nullIfEmpty(st.Description), nullID(st.ResourceID), st.IsDone, dateValue(st.DueDate), st.CreatedAt)
	if err != nil {
		return err
	}
	st.ID = id
	return nil
}

const roadmapColumns = `id, user_id, career_id, title, created_at`

func scanRoadmap(row scanner) (*models.Roadmap, error) {
	rm := &models.Roadmap{}
	var career sql.NullInt64
	if err := row.Scan(&rm.ID, &rm.UserID, &career, &rm.Title, ts(&rm.CreatedAt)); err != nil {
		return nil, classify(err)
	}
	rm.CareerID = int64Ptr(career)
	return rm, nil
}

func (s *Store) GetRoadmap(ctx context.Context, id int64) (*models.Roadmap, error) {
	return scanRoadmap(s.queryRow(ctx, `SELECT `+roadmapColumns+` FROM roadmaps WHERE id = ?`, id))
}

func (s *Store) Roadmaps(ctx context.Context, userID int64) ([]*models.Roadmap, error) {
	rows, err := s.query(ctx, `SELECT `+roadmapColumns+` FROM roadmaps WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Roadmap{}
	for rows.Next() {
		rm, err := scanRoadmap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, classify(rows.Err())
}

// RoadmapSteps returns the steps of a roadmap in step order.
func (s *Store) RoadmapSteps(ctx context.Context, roadmapID int64) ([]*models.RoadmapStep, error) {
	query := `SELECT id, user_id, roadmap_id, step_order, title, COALESCE(description, ''), resource_id,
			  is_done, due_date, completed_at, created_at
			  FROM roadmap_steps WHERE roadmap_id = ? ORDER BY step_order`
	rows, err := s.query(ctx, query, roadmapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.RoadmapStep{}
	for rows.Next() {
		st := &models.RoadmapStep{}
		var resource sql.NullInt64
		if err := rows.Scan(&st.ID, &st.UserID, &st.RoadmapID, &st.StepOrder, &st.Title, &st.Description,
			&resource, &st.IsDone, nullTS(&st.DueDate), nullTS(&st.CompletedAt), ts(&st.CreatedAt)); err != nil {
			return nil, err
		}
		st.ResourceID = int64Ptr(resource)
		out = append(out, st)
	}
	return out, classify(rows.Err())
}

// SetStepDone marks a step done or not done. completed_at follows the flag.
func (s *Store) SetStepDone(ctx context.Context, stepID int64, done bool) error {
	var completed any
	if done {
		completed = s.now()
	}
	return s.execOne(ctx, "roadmap step",
		`UPDATE roadmap_steps SET is_done = ?, completed_at = ? WHERE id = ?`, done, completed, stepID)
}

func (s *Store) DeleteRoadmap(ctx context.Context, id int64) error {
	return s.execOne(ctx, "roadmap", `DELETE FROM roadmaps WHERE id = ?`, id)
}

// Assessment operations

// RecordAssessment appends a result. Rows cannot be updated afterwards; the
// store rejects it with ErrCheckViolation.
func (s *Store) RecordAssessment(ctx context.Context, a *models.Assessment) error {
	a.TakenAt = s.timestamp(a.TakenAt)
	id, err := s.insert(ctx, `INSERT INTO assessments (user_id, assessment_type, score, taken_at) VALUES (?, ?, ?, ?)`,
		a.UserID, a.AssessmentType, a.Score, a.TakenAt)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// Assessments returns a user's results, optionally of one type, newest first.
func (s *Store) Assessments(ctx context.Context, userID int64, assessmentType string) ([]*models.Assessment, error) {
	query := `SELECT id, user_id, assessment_type, score, taken_at FROM assessments WHERE user_id = ?`
	args := []any{userID}
	if assessmentType != "" {
		query += ` AND assessment_type = ?`
		args = append(args, assessmentType)
	}
	query += ` ORDER BY taken_at DESC, id DESC`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Assessment{}
	for rows.Next() {
		a := &models.Assessment{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.AssessmentType, &a.Score, ts(&a.TakenAt)); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, classify(rows.Err())
}
