package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache stores one parsed value per config type.
type configCache struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
	onces  map[reflect.Type]*sync.Once
}

var (
	globalCache = &configCache{
		values: make(map[reflect.Type]any),
		onces:  make(map[reflect.Type]*sync.Once),
	}

	dotEnvOnce sync.Once
)

func loadDotEnv() {
	dotEnvOnce.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
}

// Parse reads environment variables into v without caching.
func Parse[T any](v *T) error {
	loadDotEnv()
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// Load parses environment variables into v once per type T; subsequent calls
// for the same type copy the cached value into v.
//
// Example:
//
//	type DatabaseConfig struct {
//		URI string `env:"MONGODB_URI,required"`
//	}
//
//	var dbConfig DatabaseConfig
//	if err := config.Load(&dbConfig); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	loadDotEnv()
	if v == nil {
		return ErrNilPointer
	}

	key := reflect.TypeFor[T]()

	if cached, ok := globalCache.get(key); ok {
		*v = cached.(T)
		return nil
	}

	globalCache.mu.Lock()
	once, exists := globalCache.onces[key]
	if !exists {
		once = new(sync.Once)
		globalCache.onces[key] = once
	}
	globalCache.mu.Unlock()

	var err error
	once.Do(func() {
		var fresh T
		if parseErr := env.Parse(&fresh); parseErr != nil {
			err = errors.Join(ErrParsingConfig, parseErr)
			// Allow a later call to retry once the environment is fixed.
			globalCache.mu.Lock()
			delete(globalCache.onces, key)
			globalCache.mu.Unlock()
			return
		}
		globalCache.mu.Lock()
		globalCache.values[key] = fresh
		globalCache.mu.Unlock()
	})
	if err != nil {
		return err
	}

	if cached, ok := globalCache.get(key); ok {
		*v = cached.(T)
		return nil
	}
	return ErrConfigNotLoaded
}

func (c *configCache) get(key reflect.Type) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}
