package models

import "time"

// User is an account on the platform. PasswordHash is opaque to this layer.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Profile holds the personal attributes of exactly one user.
type Profile struct {
	UserID      int64      `json:"user_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	Location    string     `json:"location"`
	Bio         string     `json:"bio"`
	GradeLevel  string     `json:"grade_level"`
	CareerGoals string     `json:"career_goals"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Interest is an entry of the interest vocabulary.
type Interest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Skill is an entry of the skill vocabulary.
type Skill struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// UserInterest links a user to an interest with a 0-100 confidence.
type UserInterest struct {
	UserID     int64     `json:"user_id"`
	InterestID int64     `json:"interest_id"`
	Confidence int       `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserSkill links a user to a skill with a 0-100 level.
type UserSkill struct {
	UserID          int64            `json:"user_id"`
	SkillID         int64            `json:"skill_id"`
	Level           int              `json:"level"`
	Proficiency     ProficiencyLevel `json:"proficiency,omitempty"`
	YearsExperience int              `json:"years_experience"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Career is a target of the recommendation domain.
type Career struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	Slug             string      `json:"slug"`
	Overview         string      `json:"overview"`
	Category         string      `json:"category"`
	TypicalEducation string      `json:"typical_education"`
	MedianSalary     int64       `json:"median_salary"`
	GrowthRate       float64     `json:"growth_rate"`
	DemandLevel      DemandLevel `json:"demand_level,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// CareerSkill is a required skill of a career weighted by importance (0-100).
type CareerSkill struct {
	CareerID      int64            `json:"career_id"`
	SkillID       int64            `json:"skill_id"`
	Importance    int              `json:"importance"`
	RequiredLevel ProficiencyLevel `json:"required_level,omitempty"`
	Skill         *Skill           `json:"skill,omitempty"`
}

// Resource is a piece of learning material.
type Resource struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	URL          string       `json:"url"`
	ResourceType ResourceType `json:"resource_type"`
	Provider     string       `json:"provider"`
	Description  string       `json:"description"`
	IsFree       bool         `json:"is_free"`
	Metadata     Payload      `json:"metadata,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// CareerResource places a resource in a career's recommended list.
type CareerResource struct {
	CareerID   int64     `json:"career_id"`
	ResourceID int64     `json:"resource_id"`
	Priority   int       `json:"priority"`
	Resource   *Resource `json:"resource,omitempty"`
}

type EducationStream struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type Institution struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

type Program struct {
	ID             int64  `json:"id"`
	InstitutionID  int64  `json:"institution_id"`
	StreamID       *int64 `json:"stream_id"`
	Name           string `json:"name"`
	DegreeLevel    string `json:"degree_level"`
	DurationMonths int    `json:"duration_months"`
}

// Recommendation is one output of a recommender for a user. Either CareerID
// or StreamID is set. Rows are never overwritten; history is kept.
type Recommendation struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	CareerID  *int64     `json:"career_id"`
	StreamID  *int64     `json:"stream_id"`
	Score     float64    `json:"score"`
	Rationale string     `json:"rationale"`
	Source    Provenance `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
}

// LatestRecommendation is a row of the latest_recommendations view.
type LatestRecommendation struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	CareerID    int64      `json:"career_id"`
	CareerTitle string     `json:"career_title"`
	Score       float64    `json:"score"`
	Rationale   string     `json:"rationale"`
	Source      Provenance `json:"source"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Roadmap is a user's plan toward a goal, usually a career.
type Roadmap struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CareerID  *int64    `json:"career_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// RoadmapStep is one ordered step of a roadmap. DueDate is advisory.
type RoadmapStep struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	RoadmapID   int64      `json:"roadmap_id"`
	StepOrder   int        `json:"step_order"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ResourceID  *int64     `json:"resource_id"`
	IsDone      bool       `json:"is_done"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Assessment is an append-only quiz or test result.
type Assessment struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	AssessmentType string    `json:"assessment_type"`
	Score          Payload   `json:"score"`
	TakenAt        time.Time `json:"taken_at"`
}

type Message struct {
	ID         int64      `json:"id"`
	SenderID   *int64     `json:"sender_id"`
	ReceiverID *int64     `json:"receiver_id"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	IsRead     bool       `json:"is_read"`
	SentAt     time.Time  `json:"sent_at"`
	ReadAt     *time.Time `json:"read_at"`
}

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// Upload records a blob hosted by an external file-storage service.
type Upload struct {
	ID         int64     `json:"id"`
	OwnerID    *int64    `json:"owner_id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Assignment struct {
	ID          int64      `json:"id"`
	CreatedBy   *int64     `json:"created_by"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Submission struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignment_id"`
	StudentID    int64     `json:"student_id"`
	UploadID     *int64    `json:"upload_id"`
	Content      string    `json:"content"`
	Grade        *int      `json:"grade"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type AuditLog struct {
	ID         int64     `json:"id"`
	UserID     *int64    `json:"user_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   *int64    `json:"entity_id"`
	Details    Payload   `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Mentor struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Expertise       string    `json:"expertise"`
	Bio             string    `json:"bio"`
	YearsExperience int       `json:"years_experience"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
}

type StudentMentorConnection struct {
	ID          int64            `json:"id"`
	StudentID   int64            `json:"student_id"`
	MentorID    int64            `json:"mentor_id"`
	Status      ConnectionStatus `json:"status"`
	RequestedAt time.Time        `json:"requested_at"`
	RespondedAt *time.Time       `json:"responded_at"`
	CompletedAt *time.Time       `json:"completed_at"`
}

type Badge struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	Points      int    `json:"points"`
}

type StudentBadge struct {
	StudentID int64     `json:"student_id"`
	BadgeID   int64     `json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at"`
}
