package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cacheKey identifies one parsed configuration: its Go type and the variable prefix
// it was parsed with. The same struct may be loaded under several prefixes, e.g. one
// Redis config per store.
type cacheKey struct {
	typ    reflect.Type
	prefix string
}

var (
	mu     sync.RWMutex
	loaded = make(map[cacheKey]any)

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v according to its `env` field tags.
// Each configuration type is parsed once; later calls are served from the cache.
//
//	type StoreConfig struct {
//		Backend string `env:"STATE_STORE" envDefault:"memory"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	return LoadWithPrefix(v, "")
}

// LoadWithPrefix is like Load but every variable name is prefixed, so
// `env:"ADDR"` with prefix "AUDIT_REDIS_" reads AUDIT_REDIS_ADDR.
func LoadWithPrefix[T any](v *T, prefix string) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvLoaded.Do(func() {
		// The default .env file is optional.
		_ = godotenv.Load()
	})

	key := cacheKey{typ: reflect.TypeFor[T](), prefix: prefix}

	mu.RLock()
	cached, ok := loaded[key]
	mu.RUnlock()
	if ok {
		*v = cached.(T)
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	// Another goroutine may have parsed it while we waited for the lock.
	if cached, ok := loaded[key]; ok {
		*v = cached.(T)
		return nil
	}
	if err := parse(v, prefix); err != nil {
		return err
	}
	loaded[key] = *v
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// ForceReload parses v again, bypassing and then refreshing the cache.
func ForceReload[T any](v *T, prefix string) error {
	if v == nil {
		return ErrNilPointer
	}
	mu.Lock()
	defer mu.Unlock()
	if err := parse(v, prefix); err != nil {
		return err
	}
	loaded[cacheKey{typ: reflect.TypeFor[T](), prefix: prefix}] = *v
	return nil
}

// LoadEnv loads the given .env files into the process environment. Files loaded
// later take precedence over earlier ones; variables already present in the
// environment are overwritten as well.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	if err := godotenv.Overload(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("failed to load env files: %v", err))
	}
}

// ResetCache forgets every parsed configuration. Intended for tests.
func ResetCache() {
	mu.Lock()
	loaded = make(map[cacheKey]any)
	mu.Unlock()
}

func parse[T any](v *T, prefix string) error {
	var fresh T
	if err := env.ParseWithOptions(&fresh, env.Options{Prefix: prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	*v = fresh
	return nil
}
