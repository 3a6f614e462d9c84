package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/config"
	"github.com/picshed/picshed/internal/db/controller/setting"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed default settings if absent. Existing values are never overwritten,
	// so restarts keep admin-configured values intact.

	if err := setting.SeedDefaults(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default settings")
	}
}
