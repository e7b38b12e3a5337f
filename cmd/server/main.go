package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/amazon-oauth-callback/internal/config"
	"github.com/jrsteele09/amazon-oauth-callback/internal/logging"
	"github.com/jrsteele09/amazon-oauth-callback/server"
	"github.com/jrsteele09/amazon-oauth-callback/sessions"
	"github.com/jrsteele09/amazon-oauth-callback/sessions/redisrepo"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Bytes("stack", debug.Stack()).Msgf("Recovered from panic: %v", r)
			returnError = errors.New("panic recovered")
		}
	}()

	loadDotEnv()

	c, err := config.New()
	if err != nil {
		return err
	}
	logging.Setup(logging.Options{
		Level:   c.LogLevel,
		Debug:   c.Debug,
		Console: c.GetEnv() == "DEV",
		File:    c.LogFile,
	})
	displayAppname(c.GetAppName())

	ctx := context.Background()
	sessionRepo, closeSessions, err := newSessionRepo(ctx, c)
	if err != nil {
		return err
	}
	defer closeSessions()

	handler, err := server.New(c, server.Options{Sessions: sessionRepo})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// loadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	path := filepath.Join(wd, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to load .env")
	}
}

func newSessionRepo(ctx context.Context, c *config.Config) (sessions.Repo, func(), error) {
	if c.SessionStore != config.SessionStoreRedis {
		return sessions.NewInMemoryRepo(c.GetSessionRetention()), func() {}, nil
	}
	repo, err := redisrepo.NewFromURL(ctx, c.RedisURL, c.GetSessionRetention())
	if err != nil {
		return nil, nil, err
	}
	return repo, func() { _ = repo.Close() }, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
