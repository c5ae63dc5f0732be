package redisstore

import (
	"time"

	"github.com/dmitrymomot/transitions/pkg/config"
)

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the URL of the server, e.g. "redis://:password@localhost:6379/0".
	KeyPrefix      string        `env:"REDIS_STATE_KEY_PREFIX" envDefault:"fsm:"`                  // KeyPrefix is prepended to every state key.
	TTL            time.Duration `env:"REDIS_STATE_TTL" envDefault:"0s"`                           // TTL expires state records; zero keeps them forever.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`                       // RetryAttempts is the number of connection retries.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`                      // RetryInterval is the first delay between retries; later ones grow exponentially.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                    // ConnectTimeout bounds the whole connection attempt.
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
