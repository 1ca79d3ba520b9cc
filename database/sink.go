package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/mbolis/survey-intake/model"
)

// Sink inserts each hashed record as a row of survey_record.
// Rows are never updated or deleted.
type Sink struct {
	db *sql.DB
}

func OpenSink(dbUrl string) (*Sink, error) {
	db, err := Open(dbUrl)
	if err != nil {
		return nil, err
	}
	return &Sink{db}, nil
}

func (s *Sink) Append(ctx context.Context, r model.HashedRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO survey_record (
			name, email_hash, age_hash, consent, rating,
			comments, user_agent, submission_id, received_at, ip
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name,
		r.Email,
		r.Age,
		r.Consent,
		r.Rating,
		r.Comments,
		r.UserAgent,
		r.SubmissionID,
		r.ReceivedAt.UTC().Format(time.RFC3339Nano),
		r.IP,
	)
	return errors.Wrap(err, "inserting survey_record")
}

func (s *Sink) Close() error {
	return s.db.Close()
}
