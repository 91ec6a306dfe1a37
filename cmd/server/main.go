package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dealership-reviews/internal/client"
	"github.com/iliyamo/dealership-reviews/internal/config"
	"github.com/iliyamo/dealership-reviews/internal/database"
	"github.com/iliyamo/dealership-reviews/internal/handler"
	"github.com/iliyamo/dealership-reviews/internal/logger"
	"github.com/iliyamo/dealership-reviews/internal/middleware"
	"github.com/iliyamo/dealership-reviews/internal/queue"
	"github.com/iliyamo/dealership-reviews/internal/repository"
	"github.com/iliyamo/dealership-reviews/internal/router"
	"github.com/iliyamo/dealership-reviews/internal/service"
)

const sessionSweepEvery = time.Hour

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	dealerships := repository.NewDealershipRepo(db)
	cars := repository.NewCarRepo(db)
	go sweepSessions(ctx, sessions)

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	dealerClient := client.NewDealerClient(cfg.DealerBackendURL, cfg.RemoteTimeout)
	sentimentClient := client.NewSentimentClient(cfg.SentimentAnalyzerURL, cfg.RemoteTimeout)

	var publisher service.EventPublisher
	if cfg.ReviewEvents {
		publisher = service.NewReviewPublisher(cfg.AMQPURL)
	}
	if cfg.ReviewConsumer {
		go func() {
			if err := queue.StartReviewConsumer(ctx, cfg.AMQPURL, cfg.ReviewLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("review consumer stopped")
			}
		}()
	}

	reviews := service.NewReviewService(dealerClient, sentimentClient, publisher, cfg.SentimentConcurrency)
	catalog := service.NewCatalogService(cars, repository.DefaultCatalog)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())

	router.RegisterRoutes(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users, sessions),
		Dealers:   handler.NewDealerHandler(dealerClient, dealerships),
		Reviews:   handler.NewReviewHandler(reviews),
		Cars:      handler.NewCarHandler(catalog),
		Session:   middleware.Session(cfg.SessionSecret, cfg.SessionCookie, sessions),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		MediaURL:  cfg.MediaURL,
		MediaRoot: cfg.MediaRoot,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("db", cfg.DBDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// sweepSessions deletes expired sessions at startup and then periodically.
func sweepSessions(ctx context.Context, repo *repository.SessionRepo) {
	t := time.NewTicker(sessionSweepEvery)
	defer t.Stop()
	for {
		n, err := repo.DeleteExpired(ctx, time.Now())
		if err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("session sweep failed")
		} else if n > 0 {
			log.Info().Int64("deleted", n).Msg("expired sessions removed")
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
