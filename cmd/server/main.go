package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/suPer8Hu/gopherchat/internal/ai"
	"github.com/suPer8Hu/gopherchat/internal/chat"
	"github.com/suPer8Hu/gopherchat/internal/config"
	"github.com/suPer8Hu/gopherchat/internal/db"
	"github.com/suPer8Hu/gopherchat/internal/httpapi"
	"github.com/suPer8Hu/gopherchat/internal/logging"
	"github.com/suPer8Hu/gopherchat/internal/store/rabbitmq"
	"github.com/suPer8Hu/gopherchat/internal/store/redisstore"
	"github.com/suPer8Hu/gopherchat/internal/users"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("database migrate failed")
	}
	log.Info().Msg("database ready")

	cache := redisstore.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
	defer cache.Close()

	// The event feed is optional plumbing: a dead broker downgrades to
	// warnings, it never blocks startup.
	var events *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		events, err = rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Warn().Err(err).Msg("rabbit dial failed, event feed disabled")
			events = nil
		} else {
			defer events.Close()
		}
	}

	// Provider registry: config routes to one of the registered gateways.
	reg := ai.NewRegistry()
	reg.Register("huggingface", func(ctx context.Context) (ai.Provider, error) {
		return ai.NewHFProvider(cfg.HFBaseURL, cfg.HFAPIKey, cfg.HFModel), nil
	})
	reg.Register("ollama", func(ctx context.Context) (ai.Provider, error) {
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	})

	userSvc := users.NewService(users.NewRepo(gdb), events)
	chatSvc := chat.NewService(chat.NewRepo(gdb), reg, cfg.InferenceProvider,
		chat.WithCache(cache),
		chat.WithEvents(events),
		chat.WithTimeout(cfg.InferenceTimeout),
	)

	var shuttingDown atomic.Bool
	router := httpapi.NewRouter(cfg, userSvc, chatSvc, &shuttingDown)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	// fail readiness first so traffic drains before the listener closes
	shuttingDown.Store(true)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("shutdown complete")
}
