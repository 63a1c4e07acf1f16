package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Suhwan623/ai-weeclass/internal/config"
	"github.com/Suhwan623/ai-weeclass/internal/db"
	clog "github.com/Suhwan623/ai-weeclass/internal/log"
	"github.com/Suhwan623/ai-weeclass/internal/server"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	// .env 可选,容器环境直接注入环境变量。
	_ = godotenv.Load()

	cfg := config.Load()
	clog.Init(cfg.Env)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validate")
	}

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIKey),
		openai.WithModel(cfg.OpenAIModel),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("openai client")
	}

	r, cleanup := server.SetupRouter(cfg, gdb, llm)
	defer cleanup()

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server run")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
