package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadConfig(t *testing.T) {
	var (
		err         error
		projectRoot string
	)

	// Get the project root by going up from internal/config
	projectRoot, err = filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	var cfg Config

	cfg, err = ReadConfig(configPath)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	// Test basic config fields
	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	if cfg.Webserver.ShutDownTime == 0 {
		t.Error("Webserver.ShutDownTime should have a default")
	}

	if len(cfg.Webserver.TrustedProxyHeaders) == 0 {
		t.Error("Webserver.TrustedProxyHeaders should have a default")
	}

	// Test DB config
	if cfg.DB.Path == "" {
		t.Error("DB.Path should not be empty")
	}

	// Test storage config
	if cfg.Storage.UploadsDir == "" {
		t.Error("Storage.UploadsDir should not be empty")
	}
}

func TestReadConfigEnvOverride(t *testing.T) {
	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	t.Setenv("PICSHED_CONFIG_JSON", `{"Webserver":{"Port":9999,"URL":"http://override.example"}}`)

	cfg, err := ReadConfig(configPath)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Webserver.Port != 9999 {
		t.Errorf("Webserver.Port = %d, want 9999", cfg.Webserver.Port)
	}

	if cfg.Webserver.URL != "http://override.example" {
		t.Errorf("Webserver.URL = %q, want the env override", cfg.Webserver.URL)
	}

	// values not present in the override stay intact
	if cfg.DB.Path == "" {
		t.Error("DB.Path should survive a partial env override")
	}
}

func TestValidate(t *testing.T) {
	writeConfig := func(t *testing.T, content string) string {
		t.Helper()

		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		return dir + string(filepath.Separator)
	}

	testCases := []struct {
		name        string
		content     string
		expectedErr error
	}{
		{
			name: "missing port",
			content: `[webserver]
url = "http://localhost"
[db]
path = "x.db"
[storage]
uploadsDir = "uploads"`,
			expectedErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing url",
			content: `[webserver]
port = 3000
[db]
path = "x.db"
[storage]
uploadsDir = "uploads"`,
			expectedErr: ErrEmptyURL,
		},
		{
			name: "missing db path",
			content: `[webserver]
port = 3000
url = "http://localhost"
[storage]
uploadsDir = "uploads"`,
			expectedErr: ErrEmptyDBPath,
		},
		{
			name: "missing uploads dir",
			content: `[webserver]
port = 3000
url = "http://localhost"
[db]
path = "x.db"`,
			expectedErr: ErrEmptyUploadsDir,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadConfig(writeConfig(t, tc.content))
			if !errors.Is(err, tc.expectedErr) {
				t.Errorf("ReadConfig() error = %v, want %v", err, tc.expectedErr)
			}
		})
	}
}
