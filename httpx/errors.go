package httpx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/survey-intake/log"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail any    `json:"detail"`
}

// Will log an error code at the given level, and send
// an HTTP response with status and a JSON error body
func LogError(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, errName string, detail any) {
	log.Log(level, code+":", errName)
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: errName, Detail: detail})
}

// Will log an error, and send an HTTP response with status 500.
// The cause never reaches the client.
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, errName string, err error) {
	log.Errorf("%s: %s", code, err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Error: errName, Detail: http.StatusText(http.StatusInternalServerError)})
}
