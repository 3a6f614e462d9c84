// Package web assembles the fiber application and its middleware chain.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/blob"
	"github.com/picshed/picshed/internal/config"
	fiberlogger "github.com/picshed/picshed/internal/logger/adapter/fiber"
	"github.com/picshed/picshed/internal/web/handler/health"
	"github.com/picshed/picshed/internal/web/handler/images"
	"github.com/picshed/picshed/internal/web/handler/serve"
	settingshandler "github.com/picshed/picshed/internal/web/handler/settings"
	"github.com/picshed/picshed/internal/web/handler/upload"
	"github.com/picshed/picshed/internal/web/middleware/blocklist"
)

// Service represents the web service.
type Service struct {
	App   *fiber.App
	cfg   *config.Config
	alive atomic.Bool
	db    *gorm.DB
	blobs *blob.Store
}

// Start starts the web service on the given address and blocks until
// shutdown completes.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	s.WaitShutdown()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of picshed.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: flip liveness to fail, so /health
	// returns 503 while the LB removes this instance from active targets.
	log.Info().Msgf(
		"graceful shutdown: return 503 on /health for %d seconds to let LB remove this instance from active targets",
		s.cfg.Webserver.ShutDownTime,
	)

	s.alive.Store(false)
	time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration and stores.
func New(cfg *config.Config, db *gorm.DB, blobs *blob.Store) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if blobs == nil {
		panic("blob store cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// init web service
	service := &Service{
		cfg:   cfg,
		App:   app,
		db:    db,
		blobs: blobs,
	}
	service.alive.Store(true)

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:    cfg.Log,
		HealthURI: health.Path,
	}))

	// liveness sits ahead of the filter: it must not touch the stores
	if err := health.Handler.Init(app, &service.alive); err != nil {
		log.Fatal().Err(err).Msg("failed to init health handler")
	}

	// cross-origin access restricted to the one configured origin
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Webserver.URL,
		AllowMethods: "GET,POST,PUT,DELETE",
	}))

	// every remaining route passes the blocklist filter first
	app.Use(blocklist.New(db, cfg.Webserver.TrustedProxyHeaders))

	// init handlers (they register their own routes)
	if err := serve.Handler.Init(app, cfg, db, blobs); err != nil {
		log.Fatal().Err(err).Msg("failed to init serve handler")
	}

	if err := upload.Handler.Init(app, cfg, db, blobs); err != nil {
		log.Fatal().Err(err).Msg("failed to init upload handler")
	}

	if err := images.Handler.Init(app, cfg, db, blobs); err != nil {
		log.Fatal().Err(err).Msg("failed to init images handler")
	}

	if err := settingshandler.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init settings handler")
	}

	return service
}
