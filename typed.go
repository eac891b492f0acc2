package enumcol

import (
	"database/sql/driver"
	"fmt"
	"reflect"
)

// Columner is implemented by types stored through a *Column.
// ORM integrations use it to find the Column behind a struct field.
type Columner interface {
	EnumColumn() *Column
}

// A Typed is a Column bound to E,
// sparing callers the type assertions on FromStorage.
//
// Typed is meant for implementing [database/sql.Scanner] and [database/sql/driver.Valuer] on E:
//
//	var answerColumn = enumcol.Bind[Answer]("enum_answer")
//
//	func (a Answer) Value() (driver.Value, error) { return answerColumn.Value(a) }
//	func (a *Answer) Scan(src any) error         { return answerColumn.Scan(a, src) }
type Typed[E Enumerable] struct {
	col *Column
}

// Bind constructs a *Typed for E named name.
func Bind[E Enumerable](name string, opts ...OptFn) *Typed[E] {
	return &Typed[E]{col: New(name, reflect.TypeFor[E](), opts...)}
}

// Column returns the underlying *Column.
func (t *Typed[E]) Column() *Column { return t.col }

// EnumColumn returns the underlying *Column.
func (t *Typed[E]) EnumColumn() *Column { return t.col }

// Parse returns the member of E stored as s.
func (t *Typed[E]) Parse(s string) (E, error) {
	var zero E
	m, err := t.col.FromStorage(s)
	if err != nil {
		return zero, err
	}

	return t.cast(m)
}

// Scan sets dst to the member of E that src represents.
// A nil src leaves the zero value of E in dst.
func (t *Typed[E]) Scan(dst *E, src any) error {
	var zero E
	if dst == nil {
		return fmt.Errorf("%w: cannot scan into nil %T", ErrTypeMismatch, dst)
	}

	m, err := t.col.FromStorage(src)
	if err != nil {
		return err
	}

	if m == nil {
		*dst = zero
		return nil
	}

	v, err := t.cast(m)
	if err != nil {
		return err
	}

	*dst = v

	return nil
}

// Value returns the string v is stored as.
func (t *Typed[E]) Value(v E) (driver.Value, error) { return t.col.ToStorage(v) }

func (t *Typed[E]) cast(m Enumerable) (E, error) {
	v, ok := m.(E)
	if !ok {
		var zero E
		return zero, fmt.Errorf("%w: %T is not a %T", ErrTypeMismatch, m, zero)
	}

	return v, nil
}
