package postgres

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xy-planning-network/enumcol"
	"github.com/xy-planning-network/enumcol/gormenum"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
const cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

const (
	dbHostEnvVar     = "DATABASE_HOST"
	defaultDBHost    = "localhost"
	dbNameEnvVar     = "DATABASE_NAME"
	dbPassEnvVar     = "DATABASE_PASSWORD"
	dbPortEnvVar     = "DATABASE_PORT"
	defaultDBPort    = "5432"
	dbSSLModeEnvVar  = "DATABASE_SSLMODE"
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"

	dbLogColorEnvVar     = "DATABASE_LOG_COLOR"
	dbLogLevelEnvVar     = "DATABASE_LOG_LEVEL"
	defaultDBLogLevel    = slog.LevelWarn
	dbSlowQueryEnvVar    = "DATABASE_SLOW_QUERY_MS"
	defaultDBSlowQueryMS = 200

	dbTestHostEnvVar    = "DATABASE_TEST_HOST"
	dbTestNameEnvVar    = "DATABASE_TEST_NAME"
	dbTestPassEnvVar    = "DATABASE_TEST_PASSWORD"
	dbTestPortEnvVar    = "DATABASE_TEST_PORT"
	dbTestSSLModeEnvVar = "DATABASE_TEST_SSLMODE"
	dbTestURLEnvVar     = "DATABASE_TEST_URL"
	dbTestUserEnvVar    = "DATABASE_TEST_USER"
)

// CxnConfig holds connection information used to connect to a PostgreSQL database.
type CxnConfig struct {
	IsTestDB bool
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	// Registry holds the enum columns validated when connecting.
	// If nil, enumcol.DefaultRegistry is used.
	Registry *enumcol.Registry
}

// NewCxnConfig builds a *CxnConfig from environment variables.
//
// In the Testing environment, the DATABASE_TEST_* variables are used
// and the resulting config is marked as a test database.
// Otherwise, DATABASE_URL takes precedence over the individual DATABASE_* variables.
func NewCxnConfig(env enumcol.Environment) *CxnConfig {
	if env.IsTesting() {
		return &CxnConfig{
			IsTestDB: true,
			URL:      os.Getenv(dbTestURLEnvVar),
			Host:     enumcol.EnvVarOrString(dbTestHostEnvVar, defaultDBHost),
			Name:     os.Getenv(dbTestNameEnvVar),
			Password: os.Getenv(dbTestPassEnvVar),
			Port:     enumcol.EnvVarOrString(dbTestPortEnvVar, defaultDBPort),
			SSLMode:  enumcol.EnvVarOrString(dbTestSSLModeEnvVar, defaultDBSSLMode),
			User:     os.Getenv(dbTestUserEnvVar),
		}
	}

	if url := os.Getenv(dbURLEnvVar); url != "" {
		return &CxnConfig{URL: url}
	}

	return &CxnConfig{
		Host:     enumcol.EnvVarOrString(dbHostEnvVar, defaultDBHost),
		Name:     os.Getenv(dbNameEnvVar),
		Password: os.Getenv(dbPassEnvVar),
		Port:     enumcol.EnvVarOrString(dbPortEnvVar, defaultDBPort),
		SSLMode:  enumcol.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
		User:     os.Getenv(dbUserEnvVar),
	}
}

// Configured asserts whether enough of config is set to attempt a connection.
func (config *CxnConfig) Configured() bool {
	return config.URL != "" || (config.Name != "" && config.User != "")
}

// Connect creates a database connection through GORM according to the connection config,
// validates the enum columns registered with config.Registry
// and runs all migrations.
//
// A test database has its public schema dropped first,
// which Connect refuses to do in Production.
func Connect(config *CxnConfig, migrations []Migration, env enumcol.Environment) (*gorm.DB, error) {
	if config.IsTestDB && env.IsProduction() {
		return nil, fmt.Errorf("%w: cannot use a test database in %s", enumcol.ErrBadConfig, env)
	}

	db, err := gorm.Open(postgres.Open(buildCxnStr(config)), &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), newLoggerConfig(env)),
		NamingStrategy: schema.NamingStrategy{
			NameReplacer: strings.NewReplacer("Table", ""),
		},
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(gormenum.Plugin{Registry: config.Registry}); err != nil {
		return nil, err
	}

	if config.IsTestDB {
		if err := db.Exec("DROP SCHEMA IF EXISTS public CASCADE;").Error; err != nil {
			return nil, err
		}
	}

	if err := MigrateUp(db, "public", migrations); err != nil {
		return nil, err
	}

	return db, nil
}

// newLoggerConfig reads the gorm logger settings from DATABASE_LOG_* environment variables.
// Colors default to on in Development.
func newLoggerConfig(env enumcol.Environment) logger.Config {
	// https://gorm.io/docs/logger.html
	return logger.Config{
		SlowThreshold:             time.Duration(enumcol.EnvVarOrInt(dbSlowQueryEnvVar, defaultDBSlowQueryMS)) * time.Millisecond,
		LogLevel:                  gormLogLevel(enumcol.EnvVarOrLogLevel(dbLogLevelEnvVar, defaultDBLogLevel)),
		IgnoreRecordNotFoundError: true,
		Colorful:                  enumcol.EnvVarOrBool(dbLogColorEnvVar, env.IsDevelopment()),
	}
}

func gormLogLevel(lvl slog.Level) logger.LogLevel {
	switch {
	case lvl < slog.LevelWarn:
		return logger.Info
	case lvl < slog.LevelError:
		return logger.Warn
	default:
		return logger.Error
	}
}

func buildCxnStr(config *CxnConfig) string {
	if config.URL != "" {
		return config.URL
	}

	sslMode := config.SSLMode
	if sslMode == "" {
		// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
		sslMode = defaultDBSSLMode
	}

	return fmt.Sprintf(
		cxnStr,
		config.Host,
		config.Port,
		config.Name,
		config.User,
		config.Password,
		sslMode,
	)
}

// WipeDB queries for all of the tables in schema and then drops the data in these tables.
func WipeDB(db *gorm.DB, schema string) error {
	var tables []string
	err := db.
		Table("information_schema.tables").
		Select("table_name").
		Where("table_schema = ?", schema).
		Not("table_type = ?", "VIEW").
		Not("table_name = ?", migrationsTable).
		Pluck("table_name", &tables).
		Error
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		return nil
	}

	return db.Exec(fmt.Sprintf("TRUNCATE %s CASCADE;", strings.Join(tables, ", "))).Error
}
