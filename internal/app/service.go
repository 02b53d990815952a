package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/khrees2412/careerpath/internal/database"
	"github.com/khrees2412/careerpath/internal/matcher"
	"github.com/khrees2412/careerpath/internal/planner"
	"github.com/khrees2412/careerpath/pkg/models"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// Register hashes password and creates the user. The hash is the only
// thing stored.
func (a *App) Register(ctx context.Context, u *models.User, password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidArgument, MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	if err := a.Store.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	a.Log.Info("user registered", "id", u.ID, "username", u.Username, "role", u.Role)
	return nil
}

// ResolveUser finds a user by numeric id, email or username.
func (a *App) ResolveUser(ctx context.Context, ref string) (*models.User, error) {
	ref = strings.TrimSpace(ref)
	if id, ok := parseID(ref); ok {
		return a.Store.GetUser(ctx, id)
	}
	if strings.Contains(ref, "@") {
		return a.Store.GetUserByEmail(ctx, ref)
	}
	return a.Store.GetUserByUsername(ctx, ref)
}

// ResolveCareer finds a career by numeric id or slug.
func (a *App) ResolveCareer(ctx context.Context, ref string) (*models.Career, error) {
	ref = strings.TrimSpace(ref)
	if id, ok := parseID(ref); ok {
		return a.Store.GetCareer(ctx, id)
	}
	return a.Store.GetCareerBySlug(ctx, ref)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Profile loads what the recommender knows about a user.
func (a *App) Profile(ctx context.Context, userID int64) (matcher.Profile, error) {
	skills, err := a.Store.UserSkills(ctx, userID)
	if err != nil {
		return matcher.Profile{}, fmt.Errorf("failed to load skills: %w", err)
	}
	_, interests, err := a.Store.UserInterests(ctx, userID)
	if err != nil {
		return matcher.Profile{}, fmt.Errorf("failed to load interests: %w", err)
	}
	return matcher.NewProfile(skills, interests), nil
}

// Career loads a career with its requirements.
func (a *App) Career(ctx context.Context, c *models.Career) (matcher.Career, error) {
	reqs, err := a.Store.CareerSkills(ctx, c.ID)
	if err != nil {
		return matcher.Career{}, fmt.Errorf("failed to load requirements of %s: %w", c.Slug, err)
	}
	return matcher.Career{Career: c, Requirements: reqs}, nil
}

func (a *App) careers(ctx context.Context) ([]matcher.Career, error) {
	list, err := a.Store.ListCareers(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoCareers
	}
	out := make([]matcher.Career, 0, len(list))
	for _, c := range list {
		mc, err := a.Career(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, nil
}

// Gap returns the evaluation of one career for a user.
func (a *App) Gap(ctx context.Context, userID int64, c *models.Career) (matcher.Match, error) {
	p, err := a.Profile(ctx, userID)
	if err != nil {
		return matcher.Match{}, err
	}
	mc, err := a.Career(ctx, c)
	if err != nil {
		return matcher.Match{}, err
	}
	return matcher.Evaluate(p, mc), nil
}

// Recommend ranks the catalog for a user and appends the top limit matches
// as rule-based recommendations. Earlier recommendations are kept.
func (a *App) Recommend(ctx context.Context, userID int64, limit int) ([]matcher.Match, error) {
	p, err := a.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	careers, err := a.careers(ctx)
	if err != nil {
		return nil, err
	}

	matches := matcher.Rank(p, careers, limit)
	err = a.Store.WithTx(ctx, func(tx *database.Store) error {
		for _, m := range matches {
			id := m.Career.ID
			rec := &models.Recommendation{
				UserID:    userID,
				CareerID:  &id,
				Score:     m.Score,
				Rationale: matcher.Rationale(m),
				Source:    models.ProvenanceRuleBased,
			}
			if err := tx.CreateRecommendation(ctx, rec); err != nil {
				return fmt.Errorf("failed to save recommendation for %s: %w", m.Career.Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.Log.Info("recommendations saved", "user_id", userID, "count", len(matches))
	return matches, nil
}

// BuildRoadmap plans the path from a user's current skills to a career and
// stores it. When start is set, steps are due a week apart.
func (a *App) BuildRoadmap(ctx context.Context, userID int64, c *models.Career, start time.Time) (*models.Roadmap, []*models.RoadmapStep, error) {
	m, err := a.Gap(ctx, userID, c)
	if err != nil {
		return nil, nil, err
	}

	resources := map[int64][]*models.Resource{}
	for _, g := range m.Missing {
		list, err := a.Store.ResourcesForSkill(ctx, g.SkillID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load resources for %s: %w", g.Name, err)
		}
		resources[g.SkillID] = list
	}

	plan := planner.Build(planner.Input{Career: m.Career, Gap: m.Missing, Resources: resources})
	rm := plan.Roadmap(userID, &c.ID)
	steps := plan.Steps(userID, start, 7*24*time.Hour)
	if err := a.Store.CreateRoadmap(ctx, rm, steps); err != nil {
		return nil, nil, fmt.Errorf("failed to save roadmap: %w", err)
	}
	a.Log.Info("roadmap saved", "user_id", userID, "career", c.Slug, "roadmap_id", rm.ID, "steps", len(steps))
	return rm, steps, nil
}

// RespondToConnection moves a connection on behalf of the mentor user. Only
// the mentor a connection was requested from may answer it.
func (a *App) RespondToConnection(ctx context.Context, mentorUserID, connectionID int64, next models.ConnectionStatus) (*models.StudentMentorConnection, error) {
	mentor, err := a.Store.GetMentorByUser(ctx, mentorUserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotMentor, mentorUserID)
		}
		return nil, err
	}
	conn, err := a.Store.GetConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.MentorID != mentor.ID {
		return nil, fmt.Errorf("%w: connection %d belongs to another mentor", ErrInvalidArgument, connectionID)
	}

	conn, err = a.Store.TransitionConnection(ctx, connectionID, next)
	if err != nil {
		return nil, err
	}
	a.Log.Info("connection updated", "connection_id", conn.ID, "status", conn.Status)

	note := &models.Notification{
		UserID: conn.StudentID,
		Kind:   models.NotificationSystem,
		Title:  "Mentorship " + strings.ToLower(string(conn.Status)),
	}
	if err := a.Store.CreateNotification(ctx, note); err != nil {
		a.Log.Warn("failed to notify student", "student_id", conn.StudentID, "error", err)
	}
	return conn, nil
}
