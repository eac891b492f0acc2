package enumcol

import (
	"fmt"
	"strings"
)

// A Platform is the SQL dialect a Column declares itself for.
type Platform interface {
	Name() string
	VarcharTypeDeclaration(length int) string
}

// A Dialect is one of the built-in Platforms.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func (d Dialect) Name() string { return string(d) }

func (d Dialect) String() string { return string(d) }

func (d Dialect) Valid() error {
	switch d {
	case MySQL, Postgres, SQLite:
		return nil
	default:
		return ErrNotValid
	}
}

// VarcharTypeDeclaration returns the variable-length character type holding up to length characters.
func (d Dialect) VarcharTypeDeclaration(length int) string {
	return fmt.Sprintf("VARCHAR(%d)", length)
}

// PlatformFor returns the built-in Platform for a dialect name such as "postgres" or "sqlite3".
func PlatformFor(name string) (Platform, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pg", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("%w: no platform for dialect %q", ErrNotExist, name)
	}
}
