package pgstore

import (
	"time"

	"github.com/dmitrymomot/transitions/pkg/config"
)

type Config struct {
	ConnectionString  string        `env:"PG_CONN_URL,required"`                   // ConnectionString is the connection string to the database.
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`      // MaxOpenConns is the maximum number of open connections to the database.
	MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`       // MaxIdleConns is the minimum number of connections kept open.
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`  // HealthCheckPeriod is the period between pool health checks.
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"` // MaxConnIdleTime is the maximum amount of time a connection may be idle.
	MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`  // MaxConnLifetime is the maximum amount of time a connection may be reused.

	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of connection retries.
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"1s"` // RetryInterval is the first delay between retries.

	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"state_machine_migrations"` // MigrationsTable records applied schema versions.
}

// ConfigFromEnv loads Config from the environment, prefixing every variable name
// with prefix.
func ConfigFromEnv(prefix string) (Config, error) {
	var cfg Config
	if err := config.LoadWithPrefix(&cfg, prefix); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
