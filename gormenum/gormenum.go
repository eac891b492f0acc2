package gormenum

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/xy-planning-network/enumcol"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// A Hint is the comment a column of a GORM model ought to carry.
type Hint struct {
	Table    string
	Column   string
	SQLType  string
	Nullable bool
	Comment  string
}

// DataType returns the SQL type of the column c stores field in for the dialect db is connected with.
//
// DataType implements the body of GormDBDataType,
// so it cannot return an error: errors are added to db
// and an empty string lets GORM fall back to its own data type.
func DataType(c *enumcol.Column, db *gorm.DB, field *schema.Field) string {
	p, err := enumcol.PlatformFor(db.Dialector.Name())
	if err != nil {
		db.AddError(err)
		return ""
	}

	opts := enumcol.FieldOptions{}
	if field != nil {
		opts.Name = field.DBName
		opts.Nullable = !field.NotNull
	}

	decl, err := c.ColumnDeclaration(p, opts)
	if err != nil {
		db.AddError(err)
		return ""
	}

	return decl
}

// CommentHints parses models with the naming strategy of db
// and lists a Hint for every field whose type implements enumcol.Columner.
func CommentHints(db *gorm.DB, models ...any) ([]Hint, error) {
	p, err := enumcol.PlatformFor(db.Dialector.Name())
	if err != nil {
		return nil, err
	}

	cache := new(sync.Map)
	var hints []Hint
	for _, model := range models {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", enumcol.ErrBadConfig, err)
		}

		for _, f := range s.Fields {
			if f.DBName == "" {
				continue
			}

			c, ok := columnOf(f)
			if !ok {
				continue
			}

			opts := enumcol.FieldOptions{Name: f.DBName, Nullable: !f.NotNull}
			decl, err := c.ColumnDeclaration(p, opts)
			if err != nil {
				return nil, err
			}

			ok, err = c.RequiresCommentHint()
			if err != nil {
				return nil, err
			}

			if !ok {
				continue
			}

			hints = append(hints, Hint{
				Table:    s.Table,
				Column:   f.DBName,
				SQLType:  decl,
				Nullable: opts.Nullable,
				Comment:  c.CommentHint(),
			})
		}
	}

	return hints, nil
}

func columnOf(f *schema.Field) (*enumcol.Column, bool) {
	if f.IndirectFieldType == nil {
		return nil, false
	}

	c, ok := reflect.New(f.IndirectFieldType).Interface().(enumcol.Columner)
	if !ok {
		return nil, false
	}

	col := c.EnumColumn()
	return col, col != nil
}
