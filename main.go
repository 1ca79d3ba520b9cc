package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbolis/survey-intake/app"
	"github.com/mbolis/survey-intake/config"
	"github.com/mbolis/survey-intake/database"
	"github.com/mbolis/survey-intake/log"
	"github.com/mbolis/survey-intake/routes"
	"github.com/mbolis/survey-intake/storage"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	sink, err := openSink(cfg)
	if err != nil {
		log.Fatal("main.sink.open:", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Error("main.sink.close:", err)
		}
	}()

	app := app.App{
		Sink:   sink,
		Config: cfg,
		Clock:  time.Now,
	}

	handler := routes.Wire(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = runServer(ctx, cfg, handler)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("main.server:", err)
	}
}

func openSink(cfg config.Config) (storage.Sink, error) {
	switch cfg.Sink {
	case config.SinkSQLite:
		log.Infof("Writing submissions to SQLite database %s", cfg.DBUrl)
		return database.OpenSink(cfg.DBUrl)
	default:
		log.Infof("Writing submissions to %s", cfg.DataFile)
		return storage.OpenFile(cfg.DataFile)
	}
}

func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("Listening on " + cfg.Url())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
