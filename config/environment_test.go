package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWTConfigured(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	require.False(t, JWTConfigured())

	t.Setenv("JWT_SECRET_KEY", "secret")
	require.True(t, JWTConfigured())
}
