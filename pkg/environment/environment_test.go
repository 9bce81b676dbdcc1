package environment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viralpost/authgate/pkg/environment"
)

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := environment.WithContext(context.Background(), environment.Production)
	assert.Equal(t, environment.Production, environment.FromContext(ctx))
}

func TestFromContextDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, environment.Development, environment.FromContext(context.Background()))
	assert.Equal(t, environment.Development, environment.FromContext(nil))
}

func TestChecks(t *testing.T) {
	t.Parallel()

	assert.True(t, environment.Production.IsProduction())
	assert.True(t, environment.Environment("prod").IsProduction())
	assert.False(t, environment.Development.IsProduction())

	assert.True(t, environment.Development.IsDevelopment())
	assert.True(t, environment.Environment("dev").IsDevelopment())
	assert.True(t, environment.Environment("").IsDevelopment())
	assert.False(t, environment.Production.IsDevelopment())

	assert.True(t, environment.Test.IsTest())
	assert.False(t, environment.Development.IsTest())
}
