package config

import (
	"github.com/picshed/picshed/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Storage   Storage
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Port                int      // listening port for the webserver
	ShutDownTime        int      // wait time for shutdown
	URL                 string   // origin allowed for cross-origin browser access
	TrustedProxyHeaders []string `toml:"trustedProxyHeaders"` // ordered client-address headers the operator trusts
}

// Storage holds the blob storage configuration settings.
type Storage struct {
	UploadsDir string `toml:"uploadsDir"` // flat directory holding the uploaded files
}
