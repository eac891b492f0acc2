package postgres

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enumcol"
	"gorm.io/gorm/logger"
)

func TestBuildCxnStr(t *testing.T) {
	for _, tc := range []struct {
		name   string
		config CxnConfig
		want   string
	}{
		{"url", CxnConfig{URL: "postgres://u:p@db:5432/app", Host: "ignored"}, "postgres://u:p@db:5432/app"},
		{
			"default-sslmode",
			CxnConfig{Host: "localhost", Port: "5432", Name: "app", User: "u", Password: "p"},
			"host=localhost port=5432 dbname=app user=u password=p sslmode=prefer",
		},
		{
			"sslmode",
			CxnConfig{Host: "db", Port: "6543", Name: "app", User: "u", Password: "p", SSLMode: "disable"},
			"host=db port=6543 dbname=app user=u password=p sslmode=disable",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, buildCxnStr(&tc.config))
		})
	}
}

func TestPendingMigrations(t *testing.T) {
	all := []Migration{{Key: "a"}, {Key: "b"}, {Key: "c"}}

	require.Equal(t, all, pendingMigrations(nil, all))
	require.Equal(t, []Migration{{Key: "b"}}, pendingMigrations([]string{"c", "a"}, all))
	require.Empty(t, pendingMigrations([]string{"a", "b", "c"}, all))
}

func TestQuoteLiteral(t *testing.T) {
	require.Equal(t, `'(enumcol:enum_answer)'`, quoteLiteral("(enumcol:enum_answer)"))
	require.Equal(t, `'it''s'`, quoteLiteral("it's"))
}

func TestNewLoggerConfig(t *testing.T) {
	// Arrange
	t.Setenv(dbLogColorEnvVar, "")
	t.Setenv(dbLogLevelEnvVar, "")
	t.Setenv(dbSlowQueryEnvVar, "")

	// Act
	c := newLoggerConfig(enumcol.Development)

	// Assert
	require.Equal(t, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  true,
	}, c)
	require.False(t, newLoggerConfig(enumcol.Production).Colorful)

	// Arrange
	t.Setenv(dbLogColorEnvVar, "false")
	t.Setenv(dbLogLevelEnvVar, "DEBUG")
	t.Setenv(dbSlowQueryEnvVar, "1500")

	// Act
	c = newLoggerConfig(enumcol.Development)

	// Assert
	require.False(t, c.Colorful)
	require.Equal(t, logger.Info, c.LogLevel)
	require.Equal(t, 1500*time.Millisecond, c.SlowThreshold)

	// Arrange
	t.Setenv(dbSlowQueryEnvVar, "slow")

	// Act + Assert
	require.Equal(t, 200*time.Millisecond, newLoggerConfig(enumcol.Development).SlowThreshold)
}

func TestGormLogLevel(t *testing.T) {
	require.Equal(t, logger.Info, gormLogLevel(slog.LevelDebug))
	require.Equal(t, logger.Info, gormLogLevel(slog.LevelInfo))
	require.Equal(t, logger.Warn, gormLogLevel(slog.LevelWarn))
	require.Equal(t, logger.Error, gormLogLevel(slog.LevelError))
	require.Equal(t, logger.Error, gormLogLevel(slog.LevelError+4))
}
