package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/worldle/apps/go-server/internal/config"
	"github.com/robalobadob/worldle/apps/go-server/internal/countries"
	"github.com/robalobadob/worldle/apps/go-server/internal/database"
	"github.com/robalobadob/worldle/apps/go-server/internal/httpserver"
	"github.com/robalobadob/worldle/apps/go-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := countries.Init(cfg.CountriesFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load country list")
	}

	db, err := database.OpenMigrated(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	switch cfg.StoreBackend {
	case config.BackendMemory:
		st = store.NewMemoryStore()
	case config.BackendRedis:
		rdb, err := store.NewRedisClient(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		st = store.NewRedisStore(rdb, 0)
	default:
		st = store.NewSQLiteStore(db)
	}

	srv := httpserver.New(cfg, st, db)
	log.Info().
		Str("port", cfg.Port).
		Str("store", cfg.StoreBackend).
		Str("timezone", cfg.Timezone).
		Int("countries", len(countries.All())).
		Msg("starting go-server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
