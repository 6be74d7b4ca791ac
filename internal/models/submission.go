package models

import (
	"time"

	"gorm.io/gorm"
)

// Gender is the self-reported gender category of an athlete
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is one of the known categories
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// NoClub is stored when an athlete has no club affiliation
const NoClub = "None"

// Status is the review state of a submission
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Valid reports whether s is one of the known review states
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Submission represents one pull-up attempt sent in by a member
type Submission struct {
	ID                string         `gorm:"primaryKey;type:uuid" json:"id"`
	FullName          string         `gorm:"not null" json:"full_name"`
	Email             string         `gorm:"index;not null" json:"email"`
	Phone             *string        `json:"phone,omitempty"`
	Age               int            `gorm:"not null" json:"age"`
	Gender            Gender         `gorm:"type:varchar(16);not null" json:"gender"`
	Region            string         `gorm:"index" json:"region"`
	ClubAffiliation   string         `gorm:"index" json:"club_affiliation"`
	PullUpCount       int            `gorm:"not null" json:"pull_up_count"`
	ActualPullUpCount *int           `json:"actual_pull_up_count,omitempty"`
	VideoLink         string         `gorm:"not null" json:"video_link"`
	SubmissionDate    time.Time      `gorm:"index;not null" json:"submission_date"`
	Status            Status         `gorm:"type:varchar(16);index;not null;default:'Pending'" json:"status"`
	Featured          bool           `gorm:"not null;default:false" json:"featured"`
	SocialHandle      *string        `json:"social_handle,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Submission) TableName() string {
	return "submissions"
}

// EffectiveScore returns the reviewer-confirmed count when present,
// otherwise the claimed count
func (s Submission) EffectiveScore() int {
	if s.ActualPullUpCount != nil {
		return *s.ActualPullUpCount
	}
	return s.PullUpCount
}

// Badge describes one achievement tier
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Threshold   int    `json:"threshold"`
}

// LeaderboardFilters holds the optional predicates selected on the leaderboard
type LeaderboardFilters struct {
	Club     string `query:"club" json:"club,omitempty"`
	Gender   string `query:"gender" json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	Region   string `query:"region" json:"region,omitempty"`
	AgeGroup string `query:"age_group" json:"age_group,omitempty"`
	Badge    string `query:"badge" json:"badge,omitempty"`
}

// IsZero reports whether no filter is set
func (f LeaderboardFilters) IsZero() bool {
	return f == LeaderboardFilters{}
}

// Eligibility tells a member whether a new submission is currently allowed
type Eligibility struct {
	Allowed         bool       `json:"allowed"`
	DaysRemaining   int        `json:"days_remaining"`
	Resubmission    bool       `json:"resubmission"`
	NextAvailableAt *time.Time `json:"next_available_at,omitempty"`
}
