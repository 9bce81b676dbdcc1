// Package config loads typed configuration structs from environment
// variables, sourcing a .env file in development when present.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]any)

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into the provided struct based on `env`
// field tags. Each configuration type is parsed once per process; subsequent
// calls return the cached value so every consumer observes the same config.
//
// Example:
//
//	type ProviderConfig struct {
//		URL     string `env:"SUPABASE_URL,required"`
//		AnonKey string `env:"SUPABASE_ANON_KEY,required"`
//	}
//
//	var cfg ProviderConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional; missing files are not an error.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	typeName := typeNameOf[T]()

	cacheMu.RLock()
	if cached, ok := cache[typeName]; ok {
		*v = cached.(T)
		cacheMu.RUnlock()
		return nil
	}
	cacheMu.RUnlock()

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cached, ok := cache[typeName]; ok {
		// Another goroutine parsed concurrently; keep the first result.
		*v = cached.(T)
		return nil
	}
	cache[typeName] = *v
	return nil
}

// MustLoad works like Load but panics on failure. Required startup
// configuration should use this so a malformed environment aborts the
// process instead of limping along.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func typeNameOf[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
