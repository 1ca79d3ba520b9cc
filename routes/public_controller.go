package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/mbolis/survey-intake/app"
	"github.com/mbolis/survey-intake/httpx"
	"github.com/mbolis/survey-intake/log"
	"github.com/mbolis/survey-intake/model"
)

func Ping(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"status":   "ok",
			"message":  "API is alive",
			"utc_time": app.Now().Format(time.RFC3339Nano),
		})
	}
}

func SubmitSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if render.GetRequestContentType(r) != render.ContentTypeJSON {
			httpx.LogError(w, r, http.StatusBadRequest, log.DebugLevel, "survey.content_type", "invalid_json", "Body must be application/json")
			return
		}

		raw, err := decodeObject(r.Body)
		if err != nil {
			httpx.LogError(w, r, http.StatusBadRequest, log.DebugLevel, "survey.parse_body", "invalid_json", "Body must be a JSON object")
			return
		}

		// the schema has no default, fall back on the request's own header
		if ua, ok := raw["user_agent"]; !ok || bytes.Equal(bytes.TrimSpace(ua), []byte("null")) {
			raw["user_agent"], _ = json.Marshal(r.UserAgent())
		}

		submission, verr := model.ValidateSubmission(raw)
		if verr != nil {
			httpx.LogError(w, r, http.StatusUnprocessableEntity, log.DebugLevel, "survey.validate", "validation_error", verr.Violations)
			return
		}

		now := app.Now()
		if submission.SubmissionID == "" {
			submission.SubmissionID = model.GenerateSubmissionID(submission.Email, now)
		}

		record := model.StoredSurveyRecord{
			SurveySubmission: submission,
			ReceivedAt:       now,
			IP:               httpx.ClientIP(r, app.IPHeader),
		}

		err = app.Append(r.Context(), record.Hashed())
		if err != nil {
			httpx.LogInternalError(w, r, "survey.append", "storage_error", err)
			return
		}

		log.WithFields(log.Fields{
			"submission_id": submission.SubmissionID,
			"rating":        submission.Rating,
		}).Debug("survey.accepted")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"status":        "ok",
			"submission_id": submission.SubmissionID,
		})
	}
}

var errNotObject = errors.New("body is not a single JSON object")

// decodeObject reads exactly one JSON object from body; anything after it
// other than whitespace is an error.
func decodeObject(body io.Reader) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(body)

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errNotObject
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errNotObject
	}
	return raw, nil
}
