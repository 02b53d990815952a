package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/khrees2412/careerpath/internal/config"
	"github.com/khrees2412/careerpath/internal/database"
	"github.com/khrees2412/careerpath/internal/logger"
	"github.com/khrees2412/careerpath/pkg/models"
)

func newSeededApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "app.db")}}
	store, err := database.Open(ctx, cfg.Database, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Apply(ctx))
	require.NoError(t, store.Seed(ctx))
	return New(store, cfg, nil)
}

func TestNewApp(t *testing.T) {
	a, err := NewApp(context.Background(), Options{ConfigPath: filepath.Join(t.TempDir(), "config.yaml")})
	require.NoError(t, err)
	defer a.Close()

	status, err := a.Store.Status(context.Background())
	require.NoError(t, err)
	for _, st := range status {
		assert.True(t, st.Applied)
	}
}

func TestContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoApp)

	a := &App{}
	got, err := FromContext(WithApp(context.Background(), a))
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestRegister(t *testing.T) {
	a := newSeededApp(t)
	ctx := context.Background()

	u := &models.User{Username: "dana", Email: "Dana@Example.com"}
	assert.ErrorIs(t, a.Register(ctx, u, "short"), ErrInvalidArgument)

	require.NoError(t, a.Register(ctx, u, "correct horse"))
	stored, err := a.ResolveUser(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))

	err = a.Register(ctx, &models.User{Username: "dana", Email: "other@example.com"}, "correct horse")
	assert.ErrorIs(t, err, database.ErrIntegrityViolation)
}

func TestResolve(t *testing.T) {
	a := newSeededApp(t)
	ctx := context.Background()

	byName, err := a.ResolveUser(ctx, "alice")
	require.NoError(t, err)
	byID, err := a.ResolveUser(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, byID.ID)

	_, err = a.ResolveUser(ctx, "nobody")
	assert.ErrorIs(t, err, database.ErrNotFound)

	c, err := a.ResolveCareer(ctx, "biotech-researcher")
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.ID)
}

func TestRecommend(t *testing.T) {
	a := newSeededApp(t)
	ctx := context.Background()
	alice, err := a.ResolveUser(ctx, "alice")
	require.NoError(t, err)

	before, err := a.Store.Recommendations(ctx, alice.ID)
	require.NoError(t, err)

	matches, err := a.Recommend(ctx, alice.ID, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "software-engineer", matches[0].Career.Slug)
	assert.Greater(t, matches[0].Score, 0.0)

	after, err := a.Store.Recommendations(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	assert.Equal(t, models.ProvenanceRuleBased, after[0].Source)
	assert.Contains(t, after[0].Rationale, "Data Structures")

	latest, err := a.Store.LatestRecommendations(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, latest, 1)
}

func TestRecommendEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "app.db")}}
	store, err := database.Open(ctx, cfg.Database, logger.Nop())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Apply(ctx))
	a := New(store, cfg, nil)

	u := &models.User{Username: "eve", Email: "eve@example.com", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(ctx, u))
	_, err = a.Recommend(ctx, u.ID, 3)
	assert.ErrorIs(t, err, ErrNoCareers)
}

func TestBuildRoadmap(t *testing.T) {
	a := newSeededApp(t)
	ctx := context.Background()
	alice, err := a.ResolveUser(ctx, "alice")
	require.NoError(t, err)
	swe, err := a.ResolveCareer(ctx, "software-engineer")
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rm, steps, err := a.BuildRoadmap(ctx, alice.ID, swe, start)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap for Software Engineer", rm.Title)

	stored, err := a.Store.RoadmapSteps(ctx, rm.ID)
	require.NoError(t, err)
	require.Len(t, stored, len(steps))
	assert.Equal(t, 12, len(stored))
	assert.True(t, strings.HasPrefix(stored[0].Title, "Foundations: "))
	assert.Contains(t, stored[0].Title, "Data Structures")
	require.NotNil(t, stored[0].ResourceID)
	for i, st := range stored {
		assert.Equal(t, i+1, st.StepOrder)
	}
}

func TestRespondToConnection(t *testing.T) {
	a := newSeededApp(t)
	ctx := context.Background()
	bob, err := a.ResolveUser(ctx, "bob")
	require.NoError(t, err)
	claire, err := a.ResolveUser(ctx, "claire")
	require.NoError(t, err)
	mentor, err := a.Store.GetMentorByUser(ctx, bob.ID)
	require.NoError(t, err)

	conn := &models.StudentMentorConnection{StudentID: claire.ID, MentorID: mentor.ID}
	require.NoError(t, a.Store.RequestConnection(ctx, conn))

	_, err = a.RespondToConnection(ctx, claire.ID, conn.ID, models.ConnectionAccepted)
	assert.ErrorIs(t, err, ErrNotMentor)

	got, err := a.RespondToConnection(ctx, bob.ID, conn.ID, models.ConnectionRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionRejected, got.Status)

	_, err = a.RespondToConnection(ctx, bob.ID, conn.ID, models.ConnectionAccepted)
	assert.ErrorIs(t, err, database.ErrInvalidTransition)

	notes, err := a.Store.UnreadNotifications(ctx, claire.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Mentorship rejected", notes[0].Title)
}
