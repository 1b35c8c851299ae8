package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/yahtzee/internal/config"
	"github.com/robalobadob/yahtzee/internal/httpserver"
	"github.com/robalobadob/yahtzee/internal/session"
	"github.com/robalobadob/yahtzee/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("session manager")
	}
	mem := store.NewMemoryStore()

	srv := httpserver.New(httpserver.Options{
		Store:          mem,
		Sessions:       sessions,
		Logger:         log.Logger,
		CookieName:     cfg.SessionCookie,
		ClientOrigin:   cfg.ClientOrigin,
		Secure:         cfg.Production,
		RequestTimeout: cfg.RequestTimeout,
		DailySalt:      cfg.DailySalt,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go prune(ctx, mem, cfg.PruneInterval, cfg.SessionTTL)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting yahtzee server")
		if err := srv.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// prune drops sessions idle for longer than ttl until ctx ends.
func prune(ctx context.Context, st store.Store, every, ttl time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Prune(ctx, ttl); n > 0 {
				log.Info().Int("pruned", n).Int("remaining", st.Len()).Msg("idle sessions dropped")
			}
		}
	}
}
