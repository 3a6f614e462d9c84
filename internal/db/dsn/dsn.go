// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/picshed/picshed/internal/config"
)

// Create builds the sqlite Data Source Name from the configuration.
// WAL journaling keeps concurrent readers from blocking the single writer.
func Create(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
		dbCfg.DB.Path,
	)

	if dbCfg.DB.Extras != "" {
		out = out + "&" + dbCfg.DB.Extras
	}

	return out
}
