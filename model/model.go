package model

import (
	"strconv"
	"time"
)

// SurveySubmission is one respondent's answers after validation.
// Only ValidateSubmission produces values with Consent set.
type SurveySubmission struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Age          int     `json:"age"`
	Consent      bool    `json:"consent"`
	Rating       int     `json:"rating"`
	Comments     *string `json:"comments"`
	UserAgent    *string `json:"user_agent"`
	SubmissionID string  `json:"submission_id,omitempty"`
}

// StoredSurveyRecord adds the metadata assigned by the server on receipt.
type StoredSurveyRecord struct {
	SurveySubmission
	ReceivedAt time.Time `json:"received_at"`
	IP         string    `json:"ip"`
}

// HashedSubmission is the persisted form of a submission: email and age
// are replaced by their SHA-256 digests.
type HashedSubmission struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Age          string  `json:"age"`
	Consent      bool    `json:"consent"`
	Rating       int     `json:"rating"`
	Comments     *string `json:"comments"`
	UserAgent    *string `json:"user_agent"`
	SubmissionID string  `json:"submission_id"`
}

// HashedRecord is what a sink receives: the hashed submission with the
// receipt metadata reattached in clear.
type HashedRecord struct {
	HashedSubmission
	ReceivedAt time.Time `json:"received_at"`
	IP         string    `json:"ip"`
}

func (s SurveySubmission) Hashed() HashedSubmission {
	return HashedSubmission{
		Name:         s.Name,
		Email:        HashValue(s.Email),
		Age:          HashValue(strconv.Itoa(s.Age)),
		Consent:      s.Consent,
		Rating:       s.Rating,
		Comments:     s.Comments,
		UserAgent:    s.UserAgent,
		SubmissionID: s.SubmissionID,
	}
}

func (r StoredSurveyRecord) Hashed() HashedRecord {
	return HashedRecord{
		HashedSubmission: r.SurveySubmission.Hashed(),
		ReceivedAt:       r.ReceivedAt,
		IP:               r.IP,
	}
}
