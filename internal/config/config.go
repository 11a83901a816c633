package config

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not).
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment
// variables (prefix HOMEVAULT_). Relative paths are resolved under DataDir.
type Config struct {
	DataDir    string `envconfig:"DATA_DIR" default:"."`
	DBPath     string `envconfig:"DB_PATH" default:"homevault.sqlite3"`
	AssetsDir  string `envconfig:"ASSETS_DIR" default:"assets"`
	ReportsDir string `envconfig:"REPORTS_DIR" default:"reports"`

	// Entitlements. Ceilings are injected so the gate logic never
	// hardcodes them.
	ProUnlocked          bool `envconfig:"PRO_UNLOCKED" default:"false"`
	MaxFreeItems         int  `envconfig:"MAX_FREE_ITEMS" default:"100"`
	MaxFreeLossListItems int  `envconfig:"MAX_FREE_LOSS_LIST_ITEMS" default:"20"`

	OCRBinary      string `envconfig:"OCR_BINARY" default:"tesseract"`
	OCRConcurrency int64  `envconfig:"OCR_CONCURRENCY" default:"2"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("homevault", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.DBPath = cfg.resolve(cfg.DBPath)
	cfg.AssetsDir = cfg.resolve(cfg.AssetsDir)
	cfg.ReportsDir = cfg.resolve(cfg.ReportsDir)
	return &cfg, nil
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}
