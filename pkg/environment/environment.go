// Package environment defines the application environment tag and helpers
// for propagating it through context.
package environment

import "context"

// Environment represents application environment.
type Environment string

const (
	// Development for local development.
	Development Environment = "development"
	// Test for automated test runs.
	Test Environment = "test"
	// Production for production deployments.
	Production Environment = "production"
)

type contextKey struct{}

// WithContext adds environment to context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves environment from context, defaulting to Development
// when none was set.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return Development
	}
	env, ok := ctx.Value(contextKey{}).(Environment)
	if !ok {
		return Development
	}
	return env
}

// IsProduction checks if the environment is production.
func (e Environment) IsProduction() bool {
	return e == Production || e == "prod"
}

// IsDevelopment checks if the environment is development.
func (e Environment) IsDevelopment() bool {
	return e == Development || e == "dev" || e == ""
}

// IsTest checks if the environment is test.
func (e Environment) IsTest() bool {
	return e == Test
}
