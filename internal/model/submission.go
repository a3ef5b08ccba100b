package model

import "time"

// Submission is a completed quiz plus the clinic's contact details. It is
// written once and never updated.
type Submission struct {
	Timestamp           time.Time `json:"timestamp"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	ClinicName          string    `json:"clinicName"`
	Email               string    `json:"email"`
	RecommendedSolution string    `json:"recommendedSolution"`
	Answers             []Answer  `json:"answers"`
	HasInquiry          bool      `json:"hasInquiry"`
}

// StoredInquiry is a submission as read back from a backend. RawAnswers is
// the answers payload exactly as the backend returned it; decoding happens
// in the inquiry package.
type StoredInquiry struct {
	ID                  string    `json:"id,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	ClinicName          string    `json:"clinicName"`
	Email               string    `json:"email"`
	RecommendedSolution string    `json:"recommendedSolution"`
	RawAnswers          string    `json:"answers"`
	HasInquiry          bool      `json:"hasInquiry"`
	Source              string    `json:"source"`
}

// SubmissionView is the admin listing entry.
type SubmissionView struct {
	StoredInquiry

	// Answers is nil when every decode strategy failed; RawAnswers is then
	// the only representation available.
	Answers        []Answer `json:"decodedAnswers"`
	DecodeStrategy string   `json:"decodeStrategy"`
}

// Tier names the persistence level that absorbed a submission.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
	TierLogOnly   Tier = "log-only"
)

// TierOutcome records one write attempt made by the persistence coordinator.
type TierOutcome struct {
	Tier    Tier   `json:"tier"`
	Backend string `json:"backend"`
	Err     string `json:"error,omitempty"`
}

// SubmitResult is returned for every accepted submission. Accepted is true
// even when Tier is TierLogOnly.
type SubmitResult struct {
	Accepted bool          `json:"accepted"`
	Tier     Tier          `json:"tier"`
	ID       string        `json:"id"`
	Attempts []TierOutcome `json:"attempts,omitempty"`

	// LastError is the final backend failure, kept for operators.
	LastError error `json:"-"`
}
