package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type ViolationKind string

const (
	Missing       ViolationKind = "missing"
	InvalidType   ViolationKind = "invalid_type"
	TooShort      ViolationKind = "too_short"
	TooLong       ViolationKind = "too_long"
	OutOfRange    ViolationKind = "out_of_range"
	InvalidFormat ViolationKind = "invalid_format"
	MustBeTrue    ViolationKind = "must_be_true"
)

const (
	NameMaxLen     = 100
	CommentsMaxLen = 1000
	AgeMin         = 13
	AgeMax         = 120
	RatingMin      = 1
	RatingMax      = 5
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string        `json:"field"`
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

// ValidationError carries every violation found in a submission, in field order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + string(v.Kind)
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e.Violations), strings.Join(parts, ", "))
}

// Fields returns the names of the fields that failed, in order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fields
}

var validate = validator.New()

type fieldCheck struct {
	field string
	check func(raw json.RawMessage, present bool, s *SurveySubmission) *Violation
}

var submissionFields = []fieldCheck{
	{"name", checkName},
	{"email", checkEmail},
	{"age", checkRange(AgeMin, AgeMax, func(s *SurveySubmission, n int) { s.Age = n })},
	{"consent", checkConsent},
	{"rating", checkRange(RatingMin, RatingMax, func(s *SurveySubmission, n int) { s.Rating = n })},
	{"comments", checkComments},
	{"user_agent", checkOptionalString(func(s *SurveySubmission, v string) { s.UserAgent = &v })},
	{"submission_id", checkOptionalString(func(s *SurveySubmission, v string) { s.SubmissionID = v })},
}

// ValidateSubmission checks every field of a decoded JSON object and returns
// the normalized submission, or a ValidationError listing all violations.
// A JSON null counts as absent. Unknown keys are ignored.
func ValidateSubmission(raw map[string]json.RawMessage) (SurveySubmission, *ValidationError) {
	var (
		s          SurveySubmission
		violations []Violation
	)
	for _, f := range submissionFields {
		v, ok := raw[f.field]
		present := ok && !isNull(v)
		if vi := f.check(v, present, &s); vi != nil {
			vi.Field = f.field
			violations = append(violations, *vi)
		}
	}
	if len(violations) > 0 {
		return SurveySubmission{}, &ValidationError{Violations: violations}
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func violation(kind ViolationKind, msg string, args ...any) *Violation {
	return &Violation{Kind: kind, Message: fmt.Sprintf(msg, args...)}
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeInt accepts only JSON integer literals, not quoted numbers or fractions.
func decodeInt(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, strconv.ErrSyntax
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(n.String(), 10, 0)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return int(i), nil
}

func checkName(raw json.RawMessage, present bool, s *SurveySubmission) *Violation {
	if !present {
		return violation(Missing, "field required")
	}
	name, ok := decodeString(raw)
	if !ok {
		return violation(InvalidType, "must be a string")
	}
	switch n := utf8.RuneCountInString(name); {
	case n < 1:
		return violation(TooShort, "must have at least 1 character")
	case n > NameMaxLen:
		return violation(TooLong, "must have at most %d characters", NameMaxLen)
	}
	s.Name = name
	return nil
}

func checkEmail(raw json.RawMessage, present bool, s *SurveySubmission) *Violation {
	if !present {
		return violation(Missing, "field required")
	}
	email, ok := decodeString(raw)
	if !ok {
		return violation(InvalidType, "must be a string")
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return violation(InvalidFormat, "value is not a valid email address")
	}
	s.Email = email
	return nil
}

func checkRange(min, max int, set func(*SurveySubmission, int)) func(json.RawMessage, bool, *SurveySubmission) *Violation {
	return func(raw json.RawMessage, present bool, s *SurveySubmission) *Violation {
		if !present {
			return violation(Missing, "field required")
		}
		n, err := decodeInt(raw)
		switch {
		case errors.Is(err, strconv.ErrRange):
			return violation(OutOfRange, "must be between %d and %d", min, max)
		case err != nil:
			return violation(InvalidType, "must be an integer")
		case n < min || n > max:
			return violation(OutOfRange, "must be between %d and %d", min, max)
		}
		set(s, n)
		return nil
	}
}

func checkConsent(raw json.RawMessage, present bool, s *SurveySubmission) *Violation {
	if !present {
		return violation(Missing, "field required")
	}
	var consent bool
	if err := json.Unmarshal(raw, &consent); err != nil {
		return violation(InvalidType, "must be a boolean")
	}
	if !consent {
		return violation(MustBeTrue, "consent must be true")
	}
	s.Consent = true
	return nil
}

func checkComments(raw json.RawMessage, present bool, s *SurveySubmission) *Violation {
	if !present {
		return nil
	}
	comments, ok := decodeString(raw)
	if !ok {
		return violation(InvalidType, "must be a string")
	}
	comments = strings.TrimSpace(comments)
	if utf8.RuneCountInString(comments) > CommentsMaxLen {
		return violation(TooLong, "must have at most %d characters", CommentsMaxLen)
	}
	s.Comments = &comments
	return nil
}

func checkOptionalString(set func(*SurveySubmission, string)) func(json.RawMessage, bool, *SurveySubmission) *Violation {
	return func(raw json.RawMessage, present bool, s *SurveySubmission) *Violation {
		if !present {
			return nil
		}
		v, ok := decodeString(raw)
		if !ok {
			return violation(InvalidType, "must be a string")
		}
		set(s, v)
		return nil
	}
}
