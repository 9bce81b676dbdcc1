package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viralpost/authgate/pkg/config"
)

type testConfig struct {
	Name  string `env:"LOADER_TEST_NAME" envDefault:"fallback"`
	Port  int    `env:"LOADER_TEST_PORT" envDefault:"8080"`
	Token string `env:"LOADER_TEST_TOKEN,required"`
}

type defaultsOnlyConfig struct {
	Region string `env:"LOADER_TEST_REGION" envDefault:"us-east-1"`
}

func TestLoad(t *testing.T) {
	t.Run("parses environment with defaults", func(t *testing.T) {
		t.Setenv("LOADER_TEST_NAME", "authgate")
		t.Setenv("LOADER_TEST_TOKEN", "secret")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "authgate", cfg.Name)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "secret", cfg.Token)
	})

	t.Run("caches per type", func(t *testing.T) {
		t.Setenv("LOADER_TEST_TOKEN", "first")

		var first testConfig
		require.NoError(t, config.Load(&first))

		// Changing the environment must not affect the cached result.
		t.Setenv("LOADER_TEST_NAME", "changed")
		var second testConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("defaults applied without env", func(t *testing.T) {
		var cfg defaultsOnlyConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "us-east-1", cfg.Region)
	})
}
