package app

import (
	"time"

	"github.com/mbolis/survey-intake/config"
	"github.com/mbolis/survey-intake/storage"
)

// App is the process-wide handle passed to every route.
type App struct {
	storage.Sink
	config.Config
	Clock func() time.Time
}

// Now returns the current instant in UTC.
func (app App) Now() time.Time {
	if app.Clock == nil {
		return time.Now().UTC()
	}
	return app.Clock().UTC()
}
