package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mbolis/survey-intake/app"
	"github.com/mbolis/survey-intake/log"
	"github.com/mbolis/survey-intake/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(
		middleware.RequestID,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.Logger, NoColor: true}),
		middleware.Recoverer,
	)

	root.Get("/ping", Ping(app))
	root.Mount("/v1", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.CorsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	if app.RateLimit > 0 {
		api.Use(middlewares.RateLimit(app.RateLimit, app.RateBurst, app.TrustedProxyHeader))
	}
	if app.MaxBody > 0 {
		api.Use(middlewares.MaxBody(app.MaxBody))
	}

	api.Post("/survey", SubmitSurvey(app))

	return api
}
