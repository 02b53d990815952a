package database

import (
	"context"
	"fmt"

	"github.com/khrees2412/careerpath/pkg/models"
)

// Seed inserts the sample data set in one transaction. It is meant for a
// fresh schema: on a seeded one the first user insert fails with
// ErrIntegrityViolation and nothing is written.
func (s *Store) Seed(ctx context.Context) error {
	err := s.WithTx(ctx, func(tx *Store) error {
		return tx.seed(ctx)
	})
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	s.log.Info("sample data seeded")
	return nil
}

func (s *Store) seed(ctx context.Context) error {
	// Users first so a second run stops at the duplicate email.
	alice := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hashed_pw1", Role: models.RoleStudent}
	bob := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "hashed_pw2", Role: models.RoleTeacher}
	claire := &models.User{Username: "claire", Email: "claire@example.com", PasswordHash: "hashed_pw3", Role: models.RoleAdmin}
	for _, u := range []*models.User{alice, bob, claire} {
		if err := s.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("user %s: %w", u.Username, err)
		}
	}

	profiles := []*models.Profile{
		{UserID: alice.ID, FirstName: "Alice", LastName: "Smith", Location: "New York", GradeLevel: "12", CareerGoals: "Become a software engineer"},
		{UserID: bob.ID, FirstName: "Bob", LastName: "Johnson", Location: "Boston", Bio: "Teaches computer science"},
		{UserID: claire.ID, FirstName: "Claire", LastName: "Lee", Location: "Chicago"},
	}
	for _, p := range profiles {
		if err := s.UpsertProfile(ctx, p); err != nil {
			return fmt.Errorf("profile %d: %w", p.UserID, err)
		}
	}

	interests := map[string]*models.Interest{}
	for _, name := range []string{"Programming", "Biology", "Data", "Design"} {
		in := &models.Interest{Name: name}
		if err := s.CreateInterest(ctx, in); err != nil {
			return fmt.Errorf("interest %s: %w", name, err)
		}
		interests[in.Slug] = in
	}

	skills := map[string]*models.Skill{}
	for _, sk := range []*models.Skill{
		{Name: "Python", Slug: "python", Category: "programming"},
		{Name: "Data Structures", Slug: "data-structures", Category: "computer-science"},
		{Name: "Molecular Biology", Slug: "molecular-biology", Category: "life-sciences"},
		{Name: "Statistics", Slug: "statistics", Category: "mathematics"},
	} {
		if err := s.CreateSkill(ctx, sk); err != nil {
			return fmt.Errorf("skill %s: %w", sk.Slug, err)
		}
		skills[sk.Slug] = sk
	}

	swe := &models.Career{
		Title:            "Software Engineer",
		Slug:             "software-engineer",
		Category:         "technology",
		Overview:         "Designs, builds and maintains software systems.",
		TypicalEducation: "Bachelor's in Computer Science",
		MedianSalary:     120000,
		GrowthRate:       0.22,
		DemandLevel:      models.DemandHigh,
	}
	bio := &models.Career{
		Title:            "Biotech Researcher",
		Slug:             "biotech-researcher",
		Category:         "life-sciences",
		Overview:         "Researches biological systems to develop new products and therapies.",
		TypicalEducation: "Master's in Biotechnology",
		MedianSalary:     95000,
		GrowthRate:       0.08,
		DemandLevel:      models.DemandMedium,
	}
	for _, c := range []*models.Career{swe, bio} {
		if err := s.CreateCareer(ctx, c); err != nil {
			return fmt.Errorf("career %s: %w", c.Slug, err)
		}
	}

	for _, cs := range []*models.CareerSkill{
		{CareerID: swe.ID, SkillID: skills["python"].ID, Importance: 90, RequiredLevel: models.ProficiencyIntermediate},
		{CareerID: swe.ID, SkillID: skills["data-structures"].ID, Importance: 85, RequiredLevel: models.ProficiencyIntermediate},
		{CareerID: bio.ID, SkillID: skills["molecular-biology"].ID, Importance: 95, RequiredLevel: models.ProficiencyAdvanced},
	} {
		if err := s.SetCareerSkill(ctx, cs); err != nil {
			return fmt.Errorf("career skill %d/%d: %w", cs.CareerID, cs.SkillID, err)
		}
	}

	for _, ui := range []*models.UserInterest{
		{UserID: alice.ID, InterestID: interests["programming"].ID, Confidence: 90},
		{UserID: alice.ID, InterestID: interests["data"].ID, Confidence: 60},
		{UserID: bob.ID, InterestID: interests["biology"].ID, Confidence: 70},
	} {
		if err := s.SetUserInterest(ctx, ui); err != nil {
			return fmt.Errorf("user interest: %w", err)
		}
	}
	for _, us := range []*models.UserSkill{
		{UserID: alice.ID, SkillID: skills["python"].ID, Level: 70, Proficiency: models.ProficiencyIntermediate, YearsExperience: 2},
		{UserID: alice.ID, SkillID: skills["statistics"].ID, Level: 40, Proficiency: models.ProficiencyBeginner},
		{UserID: bob.ID, SkillID: skills["molecular-biology"].ID, Level: 85, Proficiency: models.ProficiencyAdvanced, YearsExperience: 6},
	} {
		if err := s.SetUserSkill(ctx, us); err != nil {
			return fmt.Errorf("user skill: %w", err)
		}
	}

	meta, err := models.NewPayload(map[string]any{"hours": 20, "level": "beginner"})
	if err != nil {
		return err
	}
	resources := []struct {
		r        *models.Resource
		skill    string
		career   *models.Career
		priority int
	}{
		{&models.Resource{Title: "Automate the Boring Stuff with Python", URL: "https://automatetheboringstuff.com/",
			ResourceType: models.ResourceBook, Provider: "Al Sweigart", IsFree: true, Metadata: meta}, "python", swe, 1},
		{&models.Resource{Title: "CS50 Data Structures", URL: "https://cs50.harvard.edu/x/",
			ResourceType: models.ResourceCourse, Provider: "Harvard", IsFree: true}, "data-structures", swe, 2},
		{&models.Resource{Title: "Intro to Molecular Biology", URL: "https://www.khanacademy.org/science/biology",
			ResourceType: models.ResourceVideo, Provider: "Khan Academy", IsFree: true}, "molecular-biology", bio, 1},
	}
	for _, item := range resources {
		if err := s.CreateResource(ctx, item.r); err != nil {
			return fmt.Errorf("resource %q: %w", item.r.Title, err)
		}
		if err := s.LinkResourceSkill(ctx, item.r.ID, skills[item.skill].ID); err != nil {
			return err
		}
		if err := s.SetCareerResource(ctx, &models.CareerResource{CareerID: item.career.ID, ResourceID: item.r.ID, Priority: item.priority}); err != nil {
			return err
		}
	}

	science := &models.EducationStream{Name: "Science", Description: "Physics, chemistry, biology and mathematics"}
	computing := &models.EducationStream{Name: "Computing", Description: "Computer science and information technology"}
	for _, es := range []*models.EducationStream{science, computing} {
		if err := s.CreateStream(ctx, es); err != nil {
			return fmt.Errorf("stream %s: %w", es.Name, err)
		}
	}
	if err := s.LinkCareerStream(ctx, swe.ID, computing.ID); err != nil {
		return err
	}
	if err := s.LinkCareerStream(ctx, bio.ID, science.ID); err != nil {
		return err
	}

	uni := &models.Institution{Name: "State University", Location: "New York", Website: "https://state.example.edu"}
	if err := s.CreateInstitution(ctx, uni); err != nil {
		return fmt.Errorf("institution: %w", err)
	}
	bsc := &models.Program{InstitutionID: uni.ID, StreamID: &computing.ID, Name: "BSc Computer Science", DegreeLevel: "bachelor", DurationMonths: 48}
	msc := &models.Program{InstitutionID: uni.ID, StreamID: &science.ID, Name: "MSc Biotechnology", DegreeLevel: "master", DurationMonths: 24}
	for _, p := range []*models.Program{bsc, msc} {
		if err := s.CreateProgram(ctx, p); err != nil {
			return fmt.Errorf("program %s: %w", p.Name, err)
		}
	}
	if err := s.LinkCareerProgram(ctx, swe.ID, bsc.ID); err != nil {
		return err
	}
	if err := s.LinkCareerProgram(ctx, bio.ID, msc.ID); err != nil {
		return err
	}

	for _, r := range []*models.Recommendation{
		{UserID: alice.ID, CareerID: &swe.ID, Score: 85, Rationale: "Strong Python and interest in programming", Source: models.ProvenanceRuleBased},
		{UserID: bob.ID, CareerID: &bio.ID, Score: 78, Rationale: "Advanced molecular biology", Source: models.ProvenanceExpert},
		{UserID: alice.ID, StreamID: &computing.ID, Score: 80, Rationale: "Computing stream fits programming interest", Source: models.ProvenanceRuleBased},
	} {
		if err := s.CreateRecommendation(ctx, r); err != nil {
			return fmt.Errorf("recommendation: %w", err)
		}
	}

	plan := &models.Roadmap{UserID: alice.ID, CareerID: &swe.ID, Title: "Path to Software Engineer"}
	steps := []*models.RoadmapStep{
		{StepOrder: 1, Title: "Learn Python basics", ResourceID: &resources[0].r.ID, IsDone: true},
		{StepOrder: 2, Title: "Study data structures", ResourceID: &resources[1].r.ID},
		{StepOrder: 3, Title: "Build a portfolio project"},
	}
	if err := s.CreateRoadmap(ctx, plan, steps); err != nil {
		return fmt.Errorf("roadmap: %w", err)
	}

	score, err := models.NewPayload(map[string]any{"logic": 8, "math": 7, "verbal": 6})
	if err != nil {
		return err
	}
	if err := s.RecordAssessment(ctx, &models.Assessment{UserID: alice.ID, AssessmentType: "aptitude", Score: score}); err != nil {
		return fmt.Errorf("assessment: %w", err)
	}

	if err := s.SendMessage(ctx, &models.Message{SenderID: &bob.ID, ReceiverID: &alice.ID,
		Subject: "Welcome", Body: "Welcome to the platform, Alice!"}); err != nil {
		return fmt.Errorf("message: %w", err)
	}
	if err := s.CreateNotification(ctx, &models.Notification{UserID: alice.ID, Kind: models.NotificationRecommendation,
		Title: "New recommendation", Body: "Software Engineer matches your profile"}); err != nil {
		return fmt.Errorf("notification: %w", err)
	}

	upload := &models.Upload{OwnerID: &alice.ID, FileName: "resume.pdf", FileURL: "https://files.example.com/alice/resume.pdf",
		MimeType: "application/pdf", SizeBytes: 102400}
	if err := s.RecordUpload(ctx, upload); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	hw := &models.Assignment{CreatedBy: &bob.ID, Title: "Python Basics Homework", Description: "Write a function that reverses a list"}
	if err := s.CreateAssignment(ctx, hw); err != nil {
		return fmt.Errorf("assignment: %w", err)
	}
	if err := s.Submit(ctx, &models.Submission{AssignmentID: hw.ID, StudentID: alice.ID, UploadID: &upload.ID}); err != nil {
		return fmt.Errorf("submission: %w", err)
	}

	details, err := models.NewPayload(map[string]any{"ip": "127.0.0.1"})
	if err != nil {
		return err
	}
	if err := s.Audit(ctx, &models.AuditLog{UserID: &claire.ID, Action: "login", EntityType: "user", EntityID: &claire.ID, Details: details}); err != nil {
		return fmt.Errorf("audit log: %w", err)
	}

	mentor := &models.Mentor{UserID: bob.ID, Expertise: "Computer Science", Bio: "Ten years teaching programming", YearsExperience: 10, IsAvailable: true}
	if err := s.CreateMentor(ctx, mentor); err != nil {
		return fmt.Errorf("mentor: %w", err)
	}
	conn := &models.StudentMentorConnection{StudentID: alice.ID, MentorID: mentor.ID}
	if err := s.RequestConnection(ctx, conn); err != nil {
		return fmt.Errorf("connection: %w", err)
	}
	if _, err := s.TransitionConnection(ctx, conn.ID, models.ConnectionAccepted); err != nil {
		return fmt.Errorf("connection: %w", err)
	}

	badge := &models.Badge{Name: "First Steps", Description: "Completed the first roadmap step", Points: 10}
	if err := s.CreateBadge(ctx, badge); err != nil {
		return fmt.Errorf("badge: %w", err)
	}
	if err := s.AwardBadge(ctx, &models.StudentBadge{StudentID: alice.ID, BadgeID: badge.ID}); err != nil {
		return fmt.Errorf("student badge: %w", err)
	}
	return nil
}
