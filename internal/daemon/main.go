// Package daemon wires the stores and the web service together at startup.
package daemon

import (
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/blob"
	"github.com/picshed/picshed/internal/config"
	"github.com/picshed/picshed/internal/db/dsn"
	"github.com/picshed/picshed/internal/db/models"
	"github.com/picshed/picshed/internal/logger"
	"github.com/picshed/picshed/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
// Any initialization failure here is fatal: the process must not accept
// traffic without a working metadata store.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}

	dbDriver := sqlite.Open(dsn.Create(cfg)) // open db with gorm sqlite driver

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Image{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	if err = os.MkdirAll(cfg.Storage.UploadsDir, 0o750); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.UploadsDir).Msg("failed to create uploads directory")
	}

	blobs := blob.New(cfg.Storage.UploadsDir)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, blobs),
	}
}
