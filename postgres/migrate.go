package postgres

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xy-planning-network/enumcol"
	"github.com/xy-planning-network/enumcol/gormenum"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const migrationsTable = "migrations"

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.Executor(tx); err != nil {
			return err
		}

		return tx.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, m.Key, time.Now().Unix()).Error
	})
}

// MigrateUp ensures schema and the migrations table exist,
// then runs, in order, every migration whose key has not been recorded.
//
// MigrateUp stops at the first failing migration;
// its changes are rolled back and the error is returned.
func MigrateUp(db *gorm.DB, schema string, migrations []Migration) error {
	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
		return fmt.Errorf("creating %s schema: %w", schema, err)
	}

	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var ran []string
	if err := db.Table(migrationsTable).Pluck("key", &ran).Error; err != nil {
		return fmt.Errorf("fetching ran migrations: %w", err)
	}

	for _, m := range pendingMigrations(ran, migrations) {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("running migration %s: %w", m.Key, err)
		}

		slog.Info("ran migration", slog.Any(enumcol.LogKindKey, enumcol.MigrationLogKind), slog.String("key", m.Key))
	}

	return nil
}

// pendingMigrations filters out migrations whose keys are in ran.
func pendingMigrations(ran []string, all []Migration) []Migration {
	seen := make(map[string]bool, len(ran))
	for _, key := range ran {
		seen[key] = true
	}

	var pending []Migration
	for _, m := range all {
		if !seen[m.Key] {
			pending = append(pending, m)
		}
	}

	return pending
}

// CommentHintMigration builds a Migration that comments every enum column of models
// with the hint recording which enumcol.Column stores it.
// models are parsed when the Migration runs.
func CommentHintMigration(key string, models ...any) Migration {
	return Migration{
		Key: key,
		Executor: func(tx *gorm.DB) error {
			hints, err := gormenum.CommentHints(tx, models...)
			if err != nil {
				return err
			}

			for _, h := range hints {
				col := clause.Column{Table: h.Table, Name: h.Column}
				comment := clause.Expr{SQL: quoteLiteral(h.Comment)}
				if err := tx.Exec("COMMENT ON COLUMN ? IS ?", col, comment).Error; err != nil {
					return err
				}
			}

			return nil
		},
	}
}

// quoteLiteral quotes s as a PostgreSQL string constant.
// COMMENT ON does not accept bind parameters.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
