package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/careerpath/internal/config"
	"github.com/khrees2412/careerpath/internal/logger"
	"github.com/khrees2412/careerpath/pkg/models"
)

// openTestStore opens an empty sqlite store in a temp dir.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.db")}
	s, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestStore opens a store with the schema applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := openTestStore(t)
	require.NoError(t, s.Apply(context.Background()))
	return s
}

func createUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createSkill(t *testing.T, s *Store, name string) *models.Skill {
	t.Helper()
	sk := &models.Skill{Name: name}
	require.NoError(t, s.CreateSkill(context.Background(), sk))
	return sk
}

func createCareer(t *testing.T, s *Store, title string) *models.Career {
	t.Helper()
	c := &models.Career{Title: title}
	require.NoError(t, s.CreateCareer(context.Background(), c))
	return c
}

func countWhere(t *testing.T, s *Store, table, where string, args ...any) int {
	t.Helper()
	n, err := s.count(context.Background(), table, where, args...)
	require.NoError(t, err)
	return n
}

func TestRebind(t *testing.T) {
	s := &Store{dialect: Postgres}
	assert.Equal(t, "SELECT * FROM users WHERE id = $1 AND role = $2", s.rebind("SELECT * FROM users WHERE id = ? AND role = ?"))

	s.dialect = SQLite
	assert.Equal(t, "SELECT ? ", s.rebind("SELECT ? "))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Software Engineer", "software-engineer"},
		{"  UI/UX Designer ", "ui-ux-designer"},
		{"Data Structures & Algorithms!", "data-structures-and-algorithms"},
		{"python", "python"},
		{"C", "c"},
		{"C++", "c-plus-plus"},
		{"C#", "c-sharp"},
		{"Biologie Moléculaire", "biologie-moleculaire"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

func TestCreateSkillSlugs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for _, name := range []string{"C", "C++", "C#", "Русский язык", "中文", "日本語"} {
		sk := &models.Skill{Name: name}
		require.NoError(t, s.CreateSkill(ctx, sk), name)
		assert.NotEmpty(t, sk.Slug, name)
		assert.False(t, seen[sk.Slug], "duplicate slug %q", sk.Slug)
		seen[sk.Slug] = true

		got, err := s.GetSkillBySlug(ctx, sk.Slug)
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
	}

	err := s.CreateSkill(ctx, &models.Skill{Name: "!!!"})
	assert.ErrorIs(t, err, ErrCheckViolation)

	_, err = s.DB().Exec(`INSERT INTO skills (name, slug) VALUES ('blank', '')`)
	assert.ErrorIs(t, classify(err), ErrCheckViolation)
	_, err = s.DB().Exec(`INSERT INTO careers (title, slug) VALUES ('blank', '')`)
	assert.ErrorIs(t, classify(err), ErrCheckViolation)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql"}, nil)
	assert.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Username: "alice", Email: "  Alice@Example.COM ", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.RoleStudent, u.Role)

	got, err := s.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.LastLogin)
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Second)

	require.NoError(t, s.TouchLogin(ctx, u.ID))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}))

	err := s.CreateUser(ctx, &models.User{Username: "alice2", Email: "ALICE@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrIntegrityViolation)

	err = s.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrIntegrityViolation)

	users, err := s.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreateUserConcurrentUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 4
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateUser(ctx, &models.User{
				Username:     "racer" + string(rune('a'+i)),
				Email:        "race@example.com",
				PasswordHash: "x",
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrIntegrityViolation)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, countWhere(t, s, "users", "email = ?", "race@example.com"))
}

func TestCheckConstraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	sk := createSkill(t, s, "Python")
	c := createCareer(t, s, "Software Engineer")
	in := &models.Interest{Name: "Programming"}
	require.NoError(t, s.CreateInterest(ctx, in))

	tests := []struct {
		name string
		run  func() error
	}{
		{"skill level above 100", func() error {
			return s.SetUserSkill(ctx, &models.UserSkill{UserID: u.ID, SkillID: sk.ID, Level: 101})
		}},
		{"skill level below 0", func() error {
			return s.SetUserSkill(ctx, &models.UserSkill{UserID: u.ID, SkillID: sk.ID, Level: -1})
		}},
		{"unknown proficiency", func() error {
			return s.SetUserSkill(ctx, &models.UserSkill{UserID: u.ID, SkillID: sk.ID, Level: 10, Proficiency: "guru"})
		}},
		{"confidence above 100", func() error {
			return s.SetUserInterest(ctx, &models.UserInterest{UserID: u.ID, InterestID: in.ID, Confidence: 101})
		}},
		{"confidence below 0", func() error {
			return s.SetUserInterest(ctx, &models.UserInterest{UserID: u.ID, InterestID: in.ID, Confidence: -5})
		}},
		{"importance above 100", func() error {
			return s.SetCareerSkill(ctx, &models.CareerSkill{CareerID: c.ID, SkillID: sk.ID, Importance: 150})
		}},
		{"unknown role", func() error {
			return s.CreateUser(ctx, &models.User{Username: "root", Email: "root@example.com", PasswordHash: "x", Role: "superuser"})
		}},
		{"unknown resource type", func() error {
			return s.CreateResource(ctx, &models.Resource{Title: "Docs", ResourceType: "docs"})
		}},
		{"invalid resource metadata", func() error {
			return s.CreateResource(ctx, &models.Resource{Title: "Bad", ResourceType: models.ResourceBook, Metadata: models.Payload("{bad")})
		}},
		{"recommendation without target", func() error {
			return s.CreateRecommendation(ctx, &models.Recommendation{UserID: u.ID, Score: 50})
		}},
		{"recommendation score above 100", func() error {
			return s.CreateRecommendation(ctx, &models.Recommendation{UserID: u.ID, CareerID: &c.ID, Score: 100.5})
		}},
		{"unknown provenance", func() error {
			return s.CreateRecommendation(ctx, &models.Recommendation{UserID: u.ID, CareerID: &c.ID, Score: 10, Source: "oracle"})
		}},
		{"unknown notification kind", func() error {
			return s.CreateNotification(ctx, &models.Notification{UserID: u.ID, Kind: "spam", Title: "hi"})
		}},
		{"negative upload size", func() error {
			return s.RecordUpload(ctx, &models.Upload{FileName: "a", FileURL: "u", SizeBytes: -1})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), ErrCheckViolation)
		})
	}

	assert.Equal(t, 0, countWhere(t, s, "user_skills", ""))
	assert.Equal(t, 0, countWhere(t, s, "recommendations", ""))
}

func TestForeignKeyFailureIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sk := createSkill(t, s, "Python")

	err := s.SetUserSkill(ctx, &models.UserSkill{UserID: 999, SkillID: sk.ID, Level: 10})
	assert.ErrorIs(t, err, ErrIntegrityViolation)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMissingRowIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, 42), ErrNotFound)
	assert.ErrorIs(t, s.SetStepDone(ctx, 42, true), ErrNotFound)
}

func TestSetUserSkillUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	sk := createSkill(t, s, "Python")

	require.NoError(t, s.SetUserSkill(ctx, &models.UserSkill{UserID: u.ID, SkillID: sk.ID, Level: 30}))
	require.NoError(t, s.SetUserSkill(ctx, &models.UserSkill{UserID: u.ID, SkillID: sk.ID, Level: 80, Proficiency: models.ProficiencyAdvanced}))

	skills, err := s.UserSkills(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, 80, skills[0].Level)
	assert.Equal(t, models.ProficiencyAdvanced, skills[0].Proficiency)

	in := &models.Interest{Name: "Data"}
	require.NoError(t, s.CreateInterest(ctx, in))
	require.NoError(t, s.SetUserInterest(ctx, &models.UserInterest{UserID: u.ID, InterestID: in.ID, Confidence: 20}))
	require.NoError(t, s.SetUserInterest(ctx, &models.UserInterest{UserID: u.ID, InterestID: in.ID, Confidence: 75}))

	links, vocab, err := s.UserInterests(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 75, links[0].Confidence)
	assert.Equal(t, "data", vocab[0].Slug)
}

func TestProfileUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")

	dob := time.Date(2007, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpsertProfile(ctx, &models.Profile{UserID: u.ID, FirstName: "Alice", DateOfBirth: &dob}))
	require.NoError(t, s.UpsertProfile(ctx, &models.Profile{UserID: u.ID, FirstName: "Alicia", DateOfBirth: &dob, GradeLevel: "12"}))

	p, err := s.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", p.FirstName)
	assert.Equal(t, "12", p.GradeLevel)
	require.NotNil(t, p.DateOfBirth)
	assert.Equal(t, "2007-03-14", p.DateOfBirth.Format("2006-01-02"))
	assert.Equal(t, 1, countWhere(t, s, "profiles", ""))

	err = s.UpsertProfile(ctx, &models.Profile{UserID: 999, FirstName: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	alice, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	bob, err := s.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	claire, err := s.GetUserByUsername(ctx, "claire")
	require.NoError(t, err)

	owned := []string{
		"profiles", "user_interests", "user_skills", "recommendations", "roadmaps",
		"roadmap_steps", "notifications", "assessments",
	}
	for _, table := range owned {
		require.NotZero(t, countWhere(t, s, table, "user_id = ?", alice.ID), table)
	}

	require.NoError(t, s.DeleteUser(ctx, alice.ID))

	for _, table := range owned {
		assert.Zero(t, countWhere(t, s, table, "user_id = ?", alice.ID), table)
	}
	assert.Zero(t, countWhere(t, s, "student_badges", "student_id = ?", alice.ID))
	assert.Zero(t, countWhere(t, s, "submissions", "student_id = ?", alice.ID))
	assert.Zero(t, countWhere(t, s, "student_mentor_connections", "student_id = ?", alice.ID))

	// Orphaned history keeps its row.
	assert.Equal(t, 1, countWhere(t, s, "uploads", "owner_id IS NULL"))
	inbox := countWhere(t, s, "messages", "receiver_id IS NULL AND sender_id = ?", bob.ID)
	assert.Equal(t, 1, inbox)

	require.NoError(t, s.DeleteUser(ctx, bob.ID))
	assert.Equal(t, 1, countWhere(t, s, "messages", "sender_id IS NULL AND receiver_id IS NULL"))
	assert.Equal(t, 1, countWhere(t, s, "assignments", "created_by IS NULL"))
	assert.Zero(t, countWhere(t, s, "mentors", ""))

	require.NoError(t, s.DeleteUser(ctx, claire.ID))
	trail, err := s.AuditTrail(ctx, "user", claire.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Nil(t, trail[0].UserID)

	// Reference data is untouched.
	assert.Equal(t, 2, countWhere(t, s, "careers", ""))
	assert.Equal(t, 3, countWhere(t, s, "career_skills", ""))
}

func TestDeleteCareerCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	swe, err := s.GetCareerBySlug(ctx, "software-engineer")
	require.NoError(t, err)
	require.NoError(t, s.DeleteCareer(ctx, swe.ID))

	assert.Zero(t, countWhere(t, s, "career_skills", "career_id = ?", swe.ID))
	assert.Zero(t, countWhere(t, s, "career_resources", "career_id = ?", swe.ID))
	assert.Zero(t, countWhere(t, s, "recommendations", "career_id = ?", swe.ID))
	assert.Equal(t, 1, countWhere(t, s, "roadmaps", "career_id IS NULL"))
	assert.Equal(t, 3, countWhere(t, s, "roadmap_steps", ""))
}

func TestDeleteStreamDetachesPrograms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	es := &models.EducationStream{Name: "Science"}
	require.NoError(t, s.CreateStream(ctx, es))
	in := &models.Institution{Name: "State University"}
	require.NoError(t, s.CreateInstitution(ctx, in))
	p := &models.Program{InstitutionID: in.ID, StreamID: &es.ID, Name: "BSc Biology", DurationMonths: 36}
	require.NoError(t, s.CreateProgram(ctx, p))

	require.NoError(t, s.DeleteStream(ctx, es.ID))

	got, err := s.GetProgram(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StreamID)
}

func TestCareerResources(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	swe, err := s.GetCareerBySlug(ctx, "software-engineer")
	require.NoError(t, err)

	list, err := s.CareerResources(ctx, swe.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, models.ResourceBook, list[0].Resource.ResourceType)

	var meta struct {
		Hours int `json:"hours"`
	}
	require.NoError(t, list[0].Resource.Metadata.Decode(&meta))
	assert.Equal(t, 20, meta.Hours)

	python, err := s.GetSkillBySlug(ctx, "python")
	require.NoError(t, err)
	bySkill, err := s.ResourcesForSkill(ctx, python.ID)
	require.NoError(t, err)
	require.Len(t, bySkill, 1)
	assert.Equal(t, list[0].ResourceID, bySkill[0].ID)

	extra, err := s.SkillResources(ctx, swe.ID)
	require.NoError(t, err)
	assert.Empty(t, extra, "every seeded skill resource is already curated")

	ds, err := s.GetSkillBySlug(ctx, "data-structures")
	require.NoError(t, err)
	book := &models.Resource{Title: "Grokking Algorithms", ResourceType: models.ResourceBook}
	require.NoError(t, s.CreateResource(ctx, book))
	require.NoError(t, s.LinkResourceSkill(ctx, book.ID, python.ID))
	require.NoError(t, s.LinkResourceSkill(ctx, book.ID, ds.ID))

	extra, err = s.SkillResources(ctx, swe.ID)
	require.NoError(t, err)
	require.Len(t, extra, 1)
	assert.Equal(t, book.ID, extra[0].ID)

	streams, err := s.CareerStreams(ctx, swe.ID)
	require.NoError(t, err)
	require.Len(t, streams, 1)
	assert.Equal(t, "computing", streams[0].Slug)

	programs, institutions, err := s.CareerPrograms(ctx, swe.ID)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "BSc Computer Science", programs[0].Name)
	assert.Equal(t, []string{"State University"}, institutions)
}

func TestLatestRecommendations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	swe := createCareer(t, s, "Software Engineer")
	bio := createCareer(t, s, "Biotech Researcher")

	t2 := time.Now().UTC().Truncate(time.Millisecond)
	t1 := t2.Add(-time.Hour)
	for _, r := range []*models.Recommendation{
		{UserID: u.ID, CareerID: &swe.ID, Score: 40, Rationale: "old", CreatedAt: t1},
		{UserID: u.ID, CareerID: &swe.ID, Score: 70, Rationale: "new", CreatedAt: t2},
		{UserID: u.ID, CareerID: &bio.ID, Score: 55, Source: models.ProvenanceML, CreatedAt: t1},
	} {
		require.NoError(t, s.CreateRecommendation(ctx, r))
	}
	es := &models.EducationStream{Name: "Science"}
	require.NoError(t, s.CreateStream(ctx, es))
	require.NoError(t, s.CreateRecommendation(ctx, &models.Recommendation{UserID: u.ID, StreamID: &es.ID, Score: 99}))

	latest, err := s.LatestRecommendations(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, latest, 2)

	assert.Equal(t, swe.ID, latest[0].CareerID)
	assert.Equal(t, "Software Engineer", latest[0].CareerTitle)
	assert.Equal(t, 70.0, latest[0].Score)
	assert.Equal(t, "new", latest[0].Rationale)
	assert.WithinDuration(t, t2, latest[0].CreatedAt, time.Millisecond)

	assert.Equal(t, bio.ID, latest[1].CareerID)
	assert.Equal(t, models.ProvenanceML, latest[1].Source)

	all, err := s.Recommendations(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRoadmapSteps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")
	c := createCareer(t, s, "Software Engineer")

	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	rm := &models.Roadmap{UserID: u.ID, CareerID: &c.ID, Title: "Plan"}
	require.NoError(t, s.CreateRoadmap(ctx, rm, []*models.RoadmapStep{
		{StepOrder: 2, Title: "second"},
		{StepOrder: 1, Title: "first", DueDate: &due},
	}))

	steps, err := s.RoadmapSteps(ctx, rm.ID)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "first", steps[0].Title)
	require.NotNil(t, steps[0].DueDate)
	assert.Equal(t, "2026-12-01", steps[0].DueDate.Format("2006-01-02"))

	require.NoError(t, s.SetStepDone(ctx, steps[0].ID, true))
	steps, err = s.RoadmapSteps(ctx, rm.ID)
	require.NoError(t, err)
	assert.True(t, steps[0].IsDone)
	assert.NotNil(t, steps[0].CompletedAt)

	require.NoError(t, s.SetStepDone(ctx, steps[0].ID, false))
	steps, err = s.RoadmapSteps(ctx, rm.ID)
	require.NoError(t, err)
	assert.False(t, steps[0].IsDone)
	assert.Nil(t, steps[0].CompletedAt)

	err = s.AddRoadmapStep(ctx, &models.RoadmapStep{UserID: u.ID, RoadmapID: rm.ID, StepOrder: 2, Title: "dup"})
	assert.ErrorIs(t, err, ErrIntegrityViolation)

	err = s.AddRoadmapStep(ctx, &models.RoadmapStep{UserID: u.ID, RoadmapID: rm.ID, StepOrder: 0, Title: "zero"})
	assert.ErrorIs(t, err, ErrCheckViolation)

	// The same order is free in another roadmap.
	other := &models.Roadmap{UserID: u.ID, Title: "Other"}
	require.NoError(t, s.CreateRoadmap(ctx, other, []*models.RoadmapStep{{StepOrder: 1, Title: "first"}}))
}

func TestCreateRoadmapIsAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")

	err := s.CreateRoadmap(ctx, &models.Roadmap{UserID: u.ID, Title: "Plan"}, []*models.RoadmapStep{
		{StepOrder: 1, Title: "a"},
		{StepOrder: 1, Title: "b"},
	})
	assert.ErrorIs(t, err, ErrIntegrityViolation)
	assert.Zero(t, countWhere(t, s, "roadmaps", ""))
	assert.Zero(t, countWhere(t, s, "roadmap_steps", ""))
}

func TestAssessmentsAreAppendOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "alice")

	score, err := models.NewPayload(map[string]int{"logic": 8})
	require.NoError(t, err)
	a := &models.Assessment{UserID: u.ID, AssessmentType: "aptitude", Score: score}
	require.NoError(t, s.RecordAssessment(ctx, a))

	_, err = s.exec(ctx, `UPDATE assessments SET assessment_type = ? WHERE id = ?`, "personality", a.ID)
	assert.ErrorIs(t, err, ErrCheckViolation)

	err = s.RecordAssessment(ctx, &models.Assessment{UserID: u.ID, AssessmentType: "aptitude", Score: models.Payload("not json")})
	assert.ErrorIs(t, err, ErrCheckViolation)

	list, err := s.Assessments(ctx, u.ID, "aptitude")
	require.NoError(t, err)
	require.Len(t, list, 1)
	var got map[string]int
	require.NoError(t, list[0].Score.Decode(&got))
	assert.Equal(t, 8, got["logic"])
}

func TestMessagesAndNotifications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	m := &models.Message{SenderID: &bob.ID, ReceiverID: &alice.ID, Body: "hello"}
	require.NoError(t, s.SendMessage(ctx, m))

	unread, err := s.Inbox(ctx, alice.ID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, s.MarkMessageRead(ctx, m.ID))
	unread, err = s.Inbox(ctx, alice.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	got, err := s.GetMessage(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.NotNil(t, got.ReadAt)

	n := &models.Notification{UserID: alice.ID, Title: "Welcome"}
	require.NoError(t, s.CreateNotification(ctx, n))
	assert.Equal(t, models.NotificationInfo, n.Kind)

	list, err := s.UnreadNotifications(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, s.MarkNotificationRead(ctx, n.ID))
	list, err = s.UnreadNotifications(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	teacher := createUser(t, s, "bob")
	student := createUser(t, s, "alice")

	a := &models.Assignment{CreatedBy: &teacher.ID, Title: "Homework"}
	require.NoError(t, s.CreateAssignment(ctx, a))

	sub := &models.Submission{AssignmentID: a.ID, StudentID: student.ID, Content: "done"}
	require.NoError(t, s.Submit(ctx, sub))
	assert.ErrorIs(t, s.Submit(ctx, &models.Submission{AssignmentID: a.ID, StudentID: student.ID}), ErrIntegrityViolation)

	assert.ErrorIs(t, s.Grade(ctx, sub.ID, 120), ErrCheckViolation)
	require.NoError(t, s.Grade(ctx, sub.ID, 88))

	subs, err := s.Submissions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Grade)
	assert.Equal(t, 88, *subs[0].Grade)
}

func TestWithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx *Store) error {
		createUser(t, tx, "alice")
		return tx.CreateUser(ctx, &models.User{Username: "alice", Email: "again@example.com", PasswordHash: "x"})
	})
	assert.ErrorIs(t, err, ErrIntegrityViolation)
	assert.Zero(t, countWhere(t, s, "users", ""))
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	n, err := s.Count(context.Background(), "users")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.Count(context.Background(), "users; DROP TABLE users")
	assert.Error(t, err)
}
