package models

import (
	"fmt"
	"strings"
)

// Role is the account type of a user.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

var roles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

func (r Role) Valid() bool {
	for _, v := range roles {
		if v == r {
			return true
		}
	}
	return false
}

// ParseRole accepts any casing; "mentor" is read as teacher.
func ParseRole(s string) (Role, error) {
	v := Role(strings.ToLower(strings.TrimSpace(s)))
	if v == "mentor" {
		return RoleTeacher, nil
	}
	if !v.Valid() {
		return "", fmt.Errorf("invalid role %q: must be one of %v", s, roles)
	}
	return v, nil
}

// ProficiencyLevel is the ordinal self-assessed skill level.
type ProficiencyLevel string

const (
	ProficiencyBeginner     ProficiencyLevel = "beginner"
	ProficiencyIntermediate ProficiencyLevel = "intermediate"
	ProficiencyAdvanced     ProficiencyLevel = "advanced"
	ProficiencyExpert       ProficiencyLevel = "expert"
)

var proficiencyLevels = []ProficiencyLevel{
	ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert,
}

func (p ProficiencyLevel) Valid() bool {
	for _, v := range proficiencyLevels {
		if v == p {
			return true
		}
	}
	return false
}

// TargetLevel maps the ordinal onto the 0-100 level scale.
// An unset proficiency targets the midpoint.
func (p ProficiencyLevel) TargetLevel() int {
	switch p {
	case ProficiencyBeginner:
		return 25
	case ProficiencyIntermediate:
		return 50
	case ProficiencyAdvanced:
		return 75
	case ProficiencyExpert:
		return 100
	default:
		return 50
	}
}

// ProficiencyForLevel returns the highest ordinal whose target the level reaches.
func ProficiencyForLevel(level int) ProficiencyLevel {
	switch {
	case level >= 100:
		return ProficiencyExpert
	case level >= 75:
		return ProficiencyAdvanced
	case level >= 50:
		return ProficiencyIntermediate
	default:
		return ProficiencyBeginner
	}
}

func ParseProficiency(s string) (ProficiencyLevel, error) {
	v := ProficiencyLevel(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("invalid proficiency %q: must be one of %v", s, proficiencyLevels)
	}
	return v, nil
}

// ResourceType classifies learning material.
type ResourceType string

const (
	ResourceCourse      ResourceType = "course"
	ResourceArticle     ResourceType = "article"
	ResourceVideo       ResourceType = "video"
	ResourceCertificate ResourceType = "certificate"
	ResourceInternship  ResourceType = "internship"
	ResourceBook        ResourceType = "book"
)

var resourceTypes = []ResourceType{
	ResourceCourse, ResourceArticle, ResourceVideo, ResourceCertificate, ResourceInternship, ResourceBook,
}

func (t ResourceType) Valid() bool {
	for _, v := range resourceTypes {
		if v == t {
			return true
		}
	}
	return false
}

func ParseResourceType(s string) (ResourceType, error) {
	v := ResourceType(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("invalid resource type %q: must be one of %v", s, resourceTypes)
	}
	return v, nil
}

// DemandLevel is the job-market demand of a career.
type DemandLevel string

const (
	DemandLow    DemandLevel = "low"
	DemandMedium DemandLevel = "medium"
	DemandHigh   DemandLevel = "high"
)

func (d DemandLevel) Valid() bool {
	return d == DemandLow || d == DemandMedium || d == DemandHigh
}

// Provenance tags which process produced a recommendation.
type Provenance string

const (
	ProvenanceRuleBased Provenance = "rule-based"
	ProvenanceML        Provenance = "ml"
	ProvenanceExpert    Provenance = "expert"
)

func (p Provenance) Valid() bool {
	return p == ProvenanceRuleBased || p == ProvenanceML || p == ProvenanceExpert
}

func ParseProvenance(s string) (Provenance, error) {
	v := Provenance(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("invalid provenance %q: must be rule-based, ml or expert", s)
	}
	return v, nil
}

// ConnectionStatus is the state of a student-mentor connection.
type ConnectionStatus string

const (
	ConnectionPending   ConnectionStatus = "Pending"
	ConnectionAccepted  ConnectionStatus = "Accepted"
	ConnectionRejected  ConnectionStatus = "Rejected"
	ConnectionCompleted ConnectionStatus = "Completed"
)

func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionRejected, ConnectionCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in one step:
// Pending -> Accepted|Rejected, Accepted -> Completed.
func (s ConnectionStatus) CanTransitionTo(next ConnectionStatus) bool {
	switch s {
	case ConnectionPending:
		return next == ConnectionAccepted || next == ConnectionRejected
	case ConnectionAccepted:
		return next == ConnectionCompleted
	}
	return false
}

// Terminal reports whether no further transition exists.
func (s ConnectionStatus) Terminal() bool {
	return s == ConnectionRejected || s == ConnectionCompleted
}

// NotificationKind classifies notifications.
type NotificationKind string

const (
	NotificationInfo           NotificationKind = "info"
	NotificationReminder       NotificationKind = "reminder"
	NotificationRecommendation NotificationKind = "recommendation"
	NotificationMessage        NotificationKind = "message"
	NotificationSystem         NotificationKind = "system"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationInfo, NotificationReminder, NotificationRecommendation, NotificationMessage, NotificationSystem:
		return true
	}
	return false
}
