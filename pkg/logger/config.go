package logger

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/transitions/pkg/config"
)

type Config struct {
	Level   slog.Level `env:"LOG_LEVEL" envDefault:"info"`  // Level accepts debug, info, warn or error.
	Format  string     `env:"LOG_FORMAT" envDefault:"json"` // Format is json or text.
	Service string     `env:"LOG_SERVICE"`                  // Service, when set, is added to every record.
}

// ConfigFromEnv loads Config from the environment. A non-empty prefix is prepended
// to every variable name.
func ConfigFromEnv(prefix string) (Config, error) {
	var cfg Config
	if err := config.LoadWithPrefix(&cfg, prefix); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromConfig builds a logger from cfg. Extra options are applied after the
// configured ones. Unlike New it reports an unknown format as an error.
func FromConfig(cfg Config, opts ...Option) (*slog.Logger, error) {
	format := Format(cfg.Format)
	if !format.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Format)
	}
	base := []Option{WithLevel(cfg.Level), WithFormat(format)}
	if cfg.Service != "" {
		base = append(base, WithAttr(slog.String("service", cfg.Service)))
	}
	return New(append(base, opts...)...), nil
}
