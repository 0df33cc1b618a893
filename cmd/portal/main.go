package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fretemax/portal-motorista/internal/cache"
	"github.com/fretemax/portal-motorista/internal/config"
	"github.com/fretemax/portal-motorista/internal/consulta"
	"github.com/fretemax/portal-motorista/internal/freteapi"
	"github.com/fretemax/portal-motorista/internal/session"
	"github.com/fretemax/portal-motorista/internal/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("portal encerrado com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	cacheStore := cache.New()

	// O hook de 401 é amarrado depois porque o store de sessão depende
	// do cliente da API.
	var sessoes *session.Store
	api := freteapi.New(freteapi.Config{
		BaseURL: cfg.APIBaseURL,
		OnNaoAutorizado: func(ctx context.Context) {
			if sessoes != nil {
				sessoes.Derruba(ctx)
			}
		},
	})

	persistencia := session.NewPersistenciaRedis(redisClient)
	consultas := consulta.New(api, cacheStore)
	sessoes = session.New(api, persistencia, consultas, cfg.SessionTTL)

	handler, err := web.NewRouter(cfg, sessoes, consultas)
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("portal ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
