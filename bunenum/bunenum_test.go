package bunenum_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
	"github.com/xy-planning-network/enumcol"
	"github.com/xy-planning-network/enumcol/bunenum"
	_ "modernc.org/sqlite"
)

type Answer string

const (
	Yes Answer = "YES"
	No  Answer = "NO"
)

var (
	_            = enumcol.MustDefine(Yes, No)
	answerColumn = enumcol.Bind[Answer]("enum_answer")
)

func (a Answer) String() string { return string(a) }

func (a Answer) Valid() error {
	switch a {
	case Yes, No:
		return nil
	default:
		return enumcol.ErrNotValid
	}
}

func (Answer) EnumColumn() *enumcol.Column    { return answerColumn.Column() }
func (a Answer) Value() (driver.Value, error) { return answerColumn.Value(a) }
func (a *Answer) Scan(src any) error          { return answerColumn.Scan(a, src) }

type AnswerEntity struct {
	bun.BaseModel `bun:"table:answers"`

	ID     int64   `bun:",pk,autoincrement"`
	Answer *Answer `bun:"answer"`
}

type tooSmall string

var (
	_              = enumcol.MustDefine(tooSmall("TOO_LONG"))
	tooSmallColumn = enumcol.Bind[tooSmall]("enum_too_small", enumcol.WithWidth(2))
)

func (t tooSmall) String() string               { return string(t) }
func (tooSmall) Valid() error                   { return nil }
func (tooSmall) EnumColumn() *enumcol.Column    { return tooSmallColumn.Column() }
func (t tooSmall) Value() (driver.Value, error) { return tooSmallColumn.Value(t) }

type tooSmallEntity struct {
	ID    int64 `bun:",pk,autoincrement"`
	Value tooSmall
}

func newSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite", ":memory:")
	require.Nil(t, err)

	// NOTE: each connection to :memory: is its own database
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	return db
}

func TestPlatform(t *testing.T) {
	for _, tc := range []struct {
		name string
		d    schema.Dialect
		want enumcol.Platform
	}{
		{"pg", pgdialect.New(), enumcol.Postgres},
		{"mysql", mysqldialect.New(), enumcol.MySQL},
		{"sqlite", sqlitedialect.New(), enumcol.SQLite},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := bunenum.Platform(tc.d)
			require.Nil(t, err)
			require.Equal(t, tc.want, actual)
		})
	}
}

func TestApply(t *testing.T) {
	// Arrange
	db := newSQLiteDB(t)

	// Act
	err := bunenum.Apply(db, (*AnswerEntity)(nil))

	// Assert
	require.Nil(t, err)
	require.Contains(t, db.NewCreateTable().Model((*AnswerEntity)(nil)).String(), `"answer" VARCHAR(32)`)

	// Act
	err = bunenum.Apply(db, (*tooSmallEntity)(nil))

	// Assert
	require.ErrorIs(t, err, enumcol.ErrBadConfig)
	require.ErrorContains(t, err, "is longer than 2 characters")

	// Act
	err = bunenum.Apply(db, "answers")

	// Assert
	require.ErrorIs(t, err, enumcol.ErrBadConfig)
}

func TestSQLiteRoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newSQLiteDB(t)
	require.Nil(t, bunenum.Apply(db, (*AnswerEntity)(nil)))

	_, err := db.NewCreateTable().Model((*AnswerEntity)(nil)).Exec(ctx)
	require.Nil(t, err)

	no := No
	entities := []*AnswerEntity{{Answer: &no}, {Answer: nil}}

	for _, e := range entities {
		// Act
		_, err := db.NewInsert().Model(e).Exec(ctx)

		// Assert
		require.Nil(t, err)
		require.NotZero(t, e.ID)

		// Act
		loaded := new(AnswerEntity)
		err = db.NewSelect().Model(loaded).Where("id = ?", e.ID).Scan(ctx)

		// Assert
		require.Nil(t, err)
		require.Equal(t, e.ID, loaded.ID)
		require.Equal(t, e.Answer, loaded.Answer)
	}

	// Arrange
	var stored sql.NullString

	// Act
	err = db.NewSelect().Table("answers").Column("answer").Where("id = ?", entities[0].ID).Scan(ctx, &stored)

	// Assert
	require.Nil(t, err)
	require.Equal(t, sql.NullString{String: "NO", Valid: true}, stored)

	// Arrange
	_, err = db.ExecContext(ctx, "INSERT INTO answers (answer) VALUES ('MAYBE')")
	require.Nil(t, err)

	// Act
	var all []AnswerEntity
	err = db.NewSelect().Model(&all).Order("id").Scan(ctx)

	// Assert
	require.ErrorContains(t, err, `could not convert database value "MAYBE" to type enum_answer`)
}

func TestValueRejectsOtherTypes(t *testing.T) {
	col := answerColumn.Column()

	v, err := col.ToStorage(tooSmall("TOO_LONG"))
	require.Nil(t, v)
	require.ErrorIs(t, err, enumcol.ErrTypeMismatch)

	require.Equal(t, reflect.TypeFor[Answer](), col.EnumType())
}
