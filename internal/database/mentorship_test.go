package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/careerpath/pkg/models"
)

func TestConnectionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	student := createUser(t, s, "alice")
	teacher := createUser(t, s, "bob")

	mentor := &models.Mentor{UserID: teacher.ID, Expertise: "CS", YearsExperience: 5, IsAvailable: true}
	require.NoError(t, s.CreateMentor(ctx, mentor))
	assert.ErrorIs(t, s.CreateMentor(ctx, &models.Mentor{UserID: teacher.ID}), ErrIntegrityViolation)

	c := &models.StudentMentorConnection{StudentID: student.ID, MentorID: mentor.ID}
	require.NoError(t, s.RequestConnection(ctx, c))
	assert.Equal(t, models.ConnectionPending, c.Status)

	_, err := s.TransitionConnection(ctx, c.ID, models.ConnectionCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := s.TransitionConnection(ctx, c.ID, models.ConnectionAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, got.Status)
	assert.NotNil(t, got.RespondedAt)
	assert.Nil(t, got.CompletedAt)

	_, err = s.TransitionConnection(ctx, c.ID, models.ConnectionRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err = s.TransitionConnection(ctx, c.ID, models.ConnectionCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	_, err = s.TransitionConnection(ctx, c.ID, models.ConnectionAccepted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.TransitionConnection(ctx, c.ID, models.ConnectionPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.TransitionConnection(ctx, 999, models.ConnectionAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectedConnectionIsTerminal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	student := createUser(t, s, "alice")
	teacher := createUser(t, s, "bob")
	mentor := &models.Mentor{UserID: teacher.ID}
	require.NoError(t, s.CreateMentor(ctx, mentor))

	c := &models.StudentMentorConnection{StudentID: student.ID, MentorID: mentor.ID}
	require.NoError(t, s.RequestConnection(ctx, c))
	_, err := s.TransitionConnection(ctx, c.ID, models.ConnectionRejected)
	require.NoError(t, err)

	_, err = s.TransitionConnection(ctx, c.ID, models.ConnectionCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	pending, err := s.MentorConnections(ctx, mentor.ID, models.ConnectionPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAvailableMentors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := &models.Mentor{UserID: createUser(t, s, "bob").ID, YearsExperience: 3, IsAvailable: true}
	b := &models.Mentor{UserID: createUser(t, s, "carol").ID, YearsExperience: 9, IsAvailable: true}
	for _, m := range []*models.Mentor{a, b} {
		require.NoError(t, s.CreateMentor(ctx, m))
	}

	list, err := s.AvailableMentors(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	require.NoError(t, s.SetMentorAvailable(ctx, b.ID, false))
	list, err = s.AvailableMentors(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	assert.ErrorIs(t, s.CreateMentor(ctx, &models.Mentor{UserID: createUser(t, s, "dave").ID, YearsExperience: -1}), ErrCheckViolation)
}

func TestBadges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	student := createUser(t, s, "alice")

	first := &models.Badge{Name: "First Steps", Points: 10}
	streak := &models.Badge{Name: "Week Streak", Points: 25}
	for _, b := range []*models.Badge{first, streak} {
		require.NoError(t, s.CreateBadge(ctx, b))
	}
	assert.Equal(t, "first-steps", first.Slug)

	require.NoError(t, s.AwardBadge(ctx, &models.StudentBadge{StudentID: student.ID, BadgeID: first.ID}))
	require.NoError(t, s.AwardBadge(ctx, &models.StudentBadge{StudentID: student.ID, BadgeID: streak.ID}))
	assert.ErrorIs(t, s.AwardBadge(ctx, &models.StudentBadge{StudentID: student.ID, BadgeID: first.ID}), ErrIntegrityViolation)

	badges, points, err := s.StudentBadges(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, badges, 2)
	assert.Equal(t, 35, points)

	got, err := s.GetBadgeBySlug(ctx, "week-streak")
	require.NoError(t, err)
	assert.Equal(t, streak.ID, got.ID)
}
