package models

import "time"

// SubmissionRequest represents the payload for a new video submission
type SubmissionRequest struct {
	FullName        string  `json:"full_name" validate:"required,min=2,max=100"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Age             int     `json:"age" validate:"min=0,max=120"`
	Gender          Gender  `json:"gender" validate:"required,oneof=Male Female Other"`
	Region          string  `json:"region" validate:"required,max=64"`
	ClubAffiliation string  `json:"club_affiliation" validate:"max=100"`
	PullUpCount     int     `json:"pull_up_count" validate:"min=0,max=1000"`
	VideoLink       string  `json:"video_link" validate:"required,url"`
	SocialHandle    *string `json:"social_handle,omitempty" validate:"omitempty,max=64"`
}

// ReviewRequest represents the payload sent by a reviewer approving a submission
type ReviewRequest struct {
	ActualPullUpCount *int `json:"actual_pull_up_count" validate:"omitempty,min=0,max=1000"`
}

// LeaderboardEntry represents a single ranked row
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Region          string    `json:"region"`
	ClubAffiliation string    `json:"club_affiliation"`
	Age             int       `json:"age"`
	Gender          Gender    `json:"gender"`
	PullUps         int       `json:"pull_ups"`
	ClaimedPullUps  *int      `json:"claimed_pull_ups,omitempty"`
	SubmissionDate  time.Time `json:"submission_date"`
	SocialHandle    *string   `json:"social_handle,omitempty"`
	Badge           *Badge    `json:"badge,omitempty"`
}

// LeaderboardGroup represents athletes sharing one score
type LeaderboardGroup struct {
	PullUps   int                `json:"pull_ups"`
	StartRank int                `json:"start_rank"`
	EndRank   int                `json:"end_rank"`
	Size      int                `json:"size"`
	Collapsed bool               `json:"collapsed"`
	Entries   []LeaderboardEntry `json:"entries"`
}

// LeaderboardResponse represents the grouped leaderboard
type LeaderboardResponse struct {
	Groups  []LeaderboardGroup `json:"groups"`
	Total   int                `json:"total"`
	Version int64              `json:"version"`
	Filters LeaderboardFilters `json:"filters"`
}

// PreviewResponse represents the top performers strip
type PreviewResponse struct {
	Data  []LeaderboardEntry `json:"data"`
	Limit int                `json:"limit"`
}

// SearchResponse represents the response for a member rank lookup
type SearchResponse struct {
	Email     string           `json:"email"`
	StartRank int              `json:"start_rank"`
	EndRank   int              `json:"end_rank"`
	Entry     LeaderboardEntry `json:"entry"`
}

// MemberSubmission is a submission as shown on the member dashboard
type MemberSubmission struct {
	Submission
	PullUps int    `json:"pull_ups"`
	Badge   *Badge `json:"badge,omitempty"`
}

// MemberDashboard bundles a member's submissions and eligibility
type MemberDashboard struct {
	Submissions []MemberSubmission `json:"submissions"`
	Eligibility Eligibility        `json:"eligibility"`
}

// ReviewQueueResponse represents the admin review list
type ReviewQueueResponse struct {
	Data   []MemberSubmission `json:"data"`
	Counts map[Status]int64   `json:"counts"`
	Status *Status            `json:"status,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
