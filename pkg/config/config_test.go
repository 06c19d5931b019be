package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	conf, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.Server.Port)
	assert.Equal(t, "X-User-ID", conf.Auth.UserHeader)
	assert.Equal(t, OverlapScopeGlobal, conf.Overlap.Scope)
	assert.Equal(t, 365, conf.Cron.DaysToDelete)
	assert.Equal(t, 30*time.Second, conf.Realay.Lease)
	assert.Equal(t, "resources/migrations", conf.Postgres.MigrationsDir)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("POSTGRES_CONN_STRING", "postgres://localhost:5432/events")
	t.Setenv("OVERLAP_SCOPE", "OWNER")
	t.Setenv("LOGGING_LEVEL", "debug")
	t.Setenv("RELAY_POLLPERIOD", "250ms")

	conf, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.Server.Port)
	assert.Equal(t, "postgres://localhost:5432/events", conf.Postgres.ConnString)
	assert.Equal(t, OverlapScopeOwner, conf.Overlap.Scope)
	assert.Equal(t, "debug", conf.LoggingLevel)
	assert.Equal(t, 250*time.Millisecond, conf.Realay.PollPeriod)
}

func TestLoad_UnknownScopeFallsBackToGlobal(t *testing.T) {
	t.Setenv("OVERLAP_SCOPE", "room")

	conf, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, OverlapScopeGlobal, conf.Overlap.Scope)
}
