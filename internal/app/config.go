package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete client configuration, loadable from
// environment variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	APIBaseURL     string        `default:"http://localhost:5000/api" usage:"Storefront API root URL" flag:"api-base-url"`
	SessionPath    string        `usage:"Path to the session database (default ~/.shopmall/session.db)" flag:"session-path"`
	PageLimit      int           `default:"5" usage:"Products per page" flag:"page-limit"`
	OrderPageLimit int           `default:"3" usage:"Orders per page on the admin view" flag:"order-page-limit"`
	RequestTimeout time.Duration `default:"15s" usage:"Per-request deadline" flag:"request-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, and resolves the session path default.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/shopmall/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.SessionPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolve home directory for session path")
		}
		cfg.SessionPath = filepath.Join(home, ".shopmall", "session.db")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SessionPath), 0o700); err != nil {
		return nil, errors.Wrap(err, "create session directory")
	}

	return &cfg, nil
}
