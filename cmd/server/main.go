package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/junk-pickup/internal/config"
	"github.com/iliyamo/junk-pickup/internal/database"
	"github.com/iliyamo/junk-pickup/internal/handler"
	"github.com/iliyamo/junk-pickup/internal/middleware"
	"github.com/iliyamo/junk-pickup/internal/queue"
	"github.com/iliyamo/junk-pickup/internal/repository"
	"github.com/iliyamo/junk-pickup/internal/router"
	"github.com/iliyamo/junk-pickup/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	config.ConfigureLogging(cfg)

	db, err := database.Open(cfg.DSN(), cfg.DBMaxOpenConns)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events service.EventPublisher
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(cfg.AMQPURL)
		startConsumer(ctx, cfg.AMQPURL)
	}

	catalogRepo := repository.NewCatalogRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	bookingSvc := service.NewBookingService(db, catalogRepo, bookingRepo, events)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.RegisterRoutes(e, router.Handlers{
		Bookings:  handler.NewBookingHandler(bookingSvc),
		Photos:    handler.NewPhotoHandler(service.NewImageAnalyzer()),
		Users:     handler.NewUserResourceHandler(repository.NewAddressRepo(db), repository.NewPaymentMethodRepo(db)),
		Catalog:   handler.NewCatalogHandler(catalogRepo),
		Readiness: handler.Ready(db),
	}, router.Middlewares{
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(log.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// startConsumer runs the booking.created consumer until ctx ends.  A
// consumer that cannot open its log file is skipped; the API still serves.
func startConsumer(ctx context.Context, url string) {
	sink, err := queue.OpenBookingLog("logs")
	if err != nil {
		log.WithError(err).Warn("booking consumer disabled")
		return
	}
	go func() {
		defer sink.Close()
		if err := queue.StartBookingConsumer(ctx, url, sink); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("booking consumer exited")
		}
	}()
}
