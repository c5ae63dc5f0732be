package mongostore

import (
	"time"

	"github.com/dmitrymomot/transitions/pkg/config"
)

// Config represents the configuration of the MongoDB state store.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL,required"`                              // ConnectionURL is the URL of the database.
	Database        string        `env:"MONGODB_DATABASE" envDefault:"transitions"`         // Database holds the state collection.
	Collection      string        `env:"MONGODB_STATE_COLLECTION" envDefault:"fsm_states"` // Collection stores one document per state key.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`          // ConnectTimeout is the timeout for connecting to the database.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`            // MaxPoolSize is the maximum number of pooled connections.
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`              // MinPoolSize is the minimum number of pooled connections.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`      // MaxConnIdleTime is how long a pooled connection may stay idle.
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`             // RetryAttempts is the number of connection retries.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"1s"`            // RetryInterval is the first delay between retries.
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
