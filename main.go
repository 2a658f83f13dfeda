package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lexiscore/go-server/internal/advisor"
	"github.com/lexiscore/go-server/internal/game"
	"github.com/lexiscore/go-server/internal/httpserver"
	"github.com/lexiscore/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx := context.Background()

	db, err := openDB(getEnv("DB_PATH", "./data/lexiscore.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := ensureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}

	ledger := game.NewLedger(ctx, store.NewSQLiteStore(db))

	var adv httpserver.WordAdvisor
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c, err := advisor.New(ctx, key, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatal().Err(err).Msg("init word advisor")
		}
		adv = c
		log.Info().Msg("word advisor enabled")
	} else {
		log.Info().Msg("GEMINI_API_KEY not set, word advisor disabled")
	}

	srv := httpserver.New(ledger, adv)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting lexiscore server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
