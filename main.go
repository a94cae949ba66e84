package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/flagquiz/internal/catalog"
	"github.com/robalobadob/flagquiz/internal/config"
	"github.com/robalobadob/flagquiz/internal/database"
	"github.com/robalobadob/flagquiz/internal/game"
	"github.com/robalobadob/flagquiz/internal/httpserver"
	"github.com/robalobadob/flagquiz/internal/migrations"
	"github.com/robalobadob/flagquiz/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore := openStore(ctx, cfg.DBPath)
	defer closeStore()

	broker := httpserver.NewBroker()
	loop := game.NewLoop(ctx, st, game.WithObserver(broker))

	srv, err := httpserver.New(loop, broker, httpserver.Options{
		PlayTokenSecret: cfg.PlayTokenSecret,
		CookieSecure:    cfg.CookieSecure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return loop.Run(gctx) })

	// One catalog fetch per process; on failure the page stays on the start view.
	g.Go(func() error {
		loader := catalog.New(cfg.CatalogURL, cfg.CatalogFile, cfg.CatalogTimeout)
		countries, err := loader.Load(gctx)
		if err != nil {
			log.Error().Err(err).Bool("timeout", catalog.IsTimeout(err)).Msg("failed to load countries")
			return nil
		}
		if len(countries) == 0 {
			log.Warn().Msg("catalog is empty; games cannot start")
		}
		if _, err := loop.LoadCatalog(gctx, countries); err != nil && gctx.Err() == nil {
			log.Error().Err(err).Msg("install catalog")
		}
		return nil
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting flagquiz")
		return srv.Run(cfg.Addr())
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// openStore picks the best-score backend: in-memory for ":memory:", SQLite otherwise.
func openStore(ctx context.Context, path string) (store.Store, func()) {
	if path == database.Memory {
		return store.NewMemoryStore(), func() {}
	}
	db, err := database.Open(ctx, path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("open database")
	}
	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		log.Fatal().Err(err).Msg("run migrations")
	}
	return store.NewSQLiteStore(db), func() { _ = db.Close() }
}
