// Package bunenum wires enumcol Columns into bun.
//
// Fields whose type implements [enumcol.Columner] are declared by [Apply]
// with the SQL type their Column requires, e.g. VARCHAR(32),
// before bun creates their tables.
package bunenum

import (
	"fmt"
	"reflect"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
	"github.com/xy-planning-network/enumcol"
)

// Platform returns the enumcol.Platform matching d.
func Platform(d schema.Dialect) (enumcol.Platform, error) {
	return enumcol.PlatformFor(d.Name().String())
}

// Apply sets the SQL type bun creates for every field of models stored through an *enumcol.Column.
// Each model is a pointer to a struct, as passed to (*bun.DB).NewCreateTable().Model.
//
// Apply validates each Column it finds and returns the first error.
func Apply(db *bun.DB, models ...any) error {
	p, err := Platform(db.Dialect())
	if err != nil {
		return err
	}

	for _, model := range models {
		typ := reflect.TypeOf(model)
		for typ != nil && typ.Kind() == reflect.Pointer {
			typ = typ.Elem()
		}

		if typ == nil || typ.Kind() != reflect.Struct {
			return fmt.Errorf("%w: %T is not a pointer to a struct", enumcol.ErrBadConfig, model)
		}

		table := db.Table(typ)
		for _, f := range table.Fields {
			c, ok := columnOf(f)
			if !ok {
				continue
			}

			decl, err := c.ColumnDeclaration(p, enumcol.FieldOptions{Name: f.Name, Nullable: !f.NotNull})
			if err != nil {
				return err
			}

			f.CreateTableSQLType = decl
		}
	}

	return nil
}

func columnOf(f *schema.Field) (*enumcol.Column, bool) {
	if f.IndirectType == nil {
		return nil, false
	}

	c, ok := reflect.New(f.IndirectType).Interface().(enumcol.Columner)
	if !ok {
		return nil, false
	}

	col := c.EnumColumn()
	return col, col != nil
}
