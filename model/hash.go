package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// hour granularity: one id per email per UTC hour
const submissionIDLayout = "2006010215"

// HashValue returns the lowercase hex SHA-256 digest of v.
func HashValue(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}

// GenerateSubmissionID derives an id from the email and the UTC hour of now.
// Two submissions from the same email within the same hour share an id.
func GenerateSubmissionID(email string, now time.Time) string {
	return HashValue(email + now.UTC().Format(submissionIDLayout))
}
