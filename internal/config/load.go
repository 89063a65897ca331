package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read after the config file.
const (
	EnvLogLevel = "GEOMAP3D_LOG_LEVEL"
	EnvLogFile  = "GEOMAP3D_LOG_FILE"
	EnvTileURL  = "GEOMAP3D_TILE_URL"
)

// Load builds the config with priority defaults < file < .env/environment <
// flags. f may be nil.
func Load(f *Flags) (*Config, error) {
	cfg := Default()

	path := ""
	if f != nil {
		path = f.Config
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	// a missing .env is fine
	_ = godotenv.Load(".env")
	applyEnv(cfg)
	applyFlags(cfg, f)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	candidates := []string{
		"./geomap3d.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "geomap3d")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "geomap3d")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "geomap3d")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "geomap3d")
	}
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.LogFile = v
	}
	if v := os.Getenv(EnvTileURL); v != "" {
		cfg.Map.BaseLayer.URL = v
	}
}
