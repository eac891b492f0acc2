package enumcol

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync/atomic"
	"unicode/utf8"
)

// A Column persists the members of one Enumeration as strings in a fixed-width text column.
//
// A Column is registered with a host ORM under its logical type name.
// The ORM calls ColumnDeclaration when generating a schema,
// ToStorage when writing a row, FromStorage when reading one,
// and RequiresCommentHint to decide whether to annotate the column.
//
// Every one of those methods first validates the Column:
// the bound type must be a defined Enumeration
// and every member's representation must fit within the column width.
// A successful validation is remembered for the lifetime of the Column.
// A failed one is retried on every call; only the first failure is logged at Error.
// A Column is safe for concurrent use.
type Column struct {
	name      string
	typ       reflect.Type
	width     int
	represent func(Enumerable) (string, error)
	logger    *slog.Logger

	state    atomic.Pointer[columnState]
	reported atomic.Bool
}

// columnState is the result of a successful validation.
type columnState struct {
	enum   *Enumeration
	byName map[string]string
	byRepr map[string]Enumerable
}

// FieldOptions describes the field a column declaration is requested for.
// Neither value changes the declaration.
type FieldOptions struct {
	Name     string
	Nullable bool
}

// New constructs a *Column named name binding the Enumeration defined for typ.
//
// No validation occurs until the first call to one of the Column's methods
// or to Validate.
func New(name string, typ reflect.Type, opts ...OptFn) *Column {
	c := &Column{
		name:   name,
		typ:    typ,
		width:  DefaultWidth,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the logical type name the Column is registered under.
func (c *Column) Name() string { return c.name }

// EnumType returns the type identifier of the bound Enumeration.
func (c *Column) EnumType() reflect.Type { return c.typ }

// Width returns the maximum number of characters the column stores.
func (c *Column) Width() int { return c.width }

// CommentHint returns the annotation a host ORM stores next to the column definition
// to record which Column produced it.
func (c *Column) CommentHint() string { return CommentHint(c.name) }

// Representation returns the string member is stored as.
// Unless WithRepresentation was used, this is member.String().
func (c *Column) Representation(member Enumerable) (string, error) {
	if c.represent == nil {
		return member.String(), nil
	}

	return c.represent(member)
}

// ColumnDeclaration returns the SQL type of the column for the platform p.
func (c *Column) ColumnDeclaration(p Platform, _ FieldOptions) (string, error) {
	if _, err := c.ensureValid(); err != nil {
		return "", err
	}

	if p == nil {
		return "", fmt.Errorf("%w: no platform provided for %s", ErrBadConfig, c.name)
	}

	return p.VarcharTypeDeclaration(c.width), nil
}

// ToStorage converts value into the string stored in the database.
//
// A nil value or nil pointer to the bound type converts to nil, i.e. NULL.
// A member of the bound Enumeration, or a pointer to one, converts to its representation.
// Any other value returns a *ConversionError wrapping ErrTypeMismatch.
func (c *Column) ToStorage(value any) (driver.Value, error) {
	st, err := c.ensureValid()
	if err != nil {
		return nil, err
	}

	if st.isNull(value) {
		return nil, nil
	}

	m, ok := st.enum.member(value)
	if !ok {
		return nil, &ConversionError{
			Value:    value,
			TypeName: c.name,
			Expected: []string{"nil", st.enum.Name()},
			Err:      ErrTypeMismatch,
		}
	}

	return st.byName[m.String()], nil
}

// FromStorage converts raw, as read from the database, into a member of the bound Enumeration.
//
// A nil raw converts to nil.
// A string or []byte converts to the member it represents
// or returns a *ConversionError wrapping ErrConversion if there is none.
// Any other raw returns a *ConversionError wrapping ErrTypeMismatch.
func (c *Column) FromStorage(raw any) (Enumerable, error) {
	st, err := c.ensureValid()
	if err != nil {
		return nil, err
	}

	var s string
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return nil, &ConversionError{
			Value:    raw,
			TypeName: c.name,
			Expected: []string{"nil", "string"},
			Err:      ErrTypeMismatch,
		}
	}

	m, ok := st.byRepr[s]
	if !ok {
		return nil, &ConversionError{Value: raw, TypeName: c.name, Err: ErrConversion}
	}

	return m, nil
}

// RequiresCommentHint reports whether a host ORM ought to annotate the column with CommentHint.
// It always does: a VARCHAR alone does not say which Enumeration it holds.
func (c *Column) RequiresCommentHint() (bool, error) {
	if _, err := c.ensureValid(); err != nil {
		return false, err
	}

	return true, nil
}

// Members returns the members of the bound Enumeration.
func (c *Column) Members() ([]Enumerable, error) {
	st, err := c.ensureValid()
	if err != nil {
		return nil, err
	}

	return st.enum.Members(), nil
}

// Validate checks the Column without converting anything.
// Call it at process start to surface configuration errors before any row is read or written.
func (c *Column) Validate() error {
	_, err := c.ensureValid()
	return err
}

// LogValue implements [log/slog.LogValuer].
func (c *Column) LogValue() slog.Value {
	enum := "<nil>"
	if c.typ != nil {
		enum = c.typ.String()
	}

	return slog.GroupValue(
		slog.String("name", c.name),
		slog.String("enum", enum),
		slog.Int("width", c.width),
	)
}

// ensureValid returns the validated state of c, validating it first if needed.
//
// Concurrent first calls may each validate;
// validation is deterministic, so whichever state is stored last is equivalent.
func (c *Column) ensureValid() (*columnState, error) {
	if st := c.state.Load(); st != nil {
		return st, nil
	}

	st, err := c.validate()
	if err != nil {
		lvl := slog.LevelError
		if c.reported.Swap(true) {
			lvl = slog.LevelDebug
		}

		c.logger.Log(context.Background(), lvl, "enum column invalid", slog.Any(LogKindKey, AppLogKind), slog.Any("column", c), slog.Any("error", err))
		return nil, err
	}

	c.state.Store(st)
	c.logger.Debug("enum column validated", slog.Any(LogKindKey, AppLogKind), slog.Any("column", c))

	return st, nil
}

func (c *Column) validate() (*columnState, error) {
	enum, err := Lookup(c.typ)
	if err != nil {
		return nil, err
	}

	if c.width < 1 {
		return nil, &ConfigError{
			Enum:   enum.Name(),
			Width:  c.width,
			Reason: fmt.Sprintf("cannot be stored in a column %d characters wide", c.width),
			Err:    ErrBadConfig,
		}
	}

	st := &columnState{
		enum:   enum,
		byName: make(map[string]string, enum.Len()),
		byRepr: make(map[string]Enumerable, enum.Len()),
	}

	for _, m := range enum.members {
		repr, err := c.Representation(m)
		if err != nil {
			var uhe *UnhandledMemberError
			if errors.As(err, &uhe) {
				return nil, err
			}

			return nil, &ConfigError{
				Enum:   enum.Name(),
				Member: m.String(),
				Reason: fmt.Sprintf("has no representation: %s", err),
				Err:    ErrBadConfig,
			}
		}

		if utf8.RuneCountInString(repr) > c.width {
			return nil, &ConfigError{
				Enum:           enum.Name(),
				Member:         m.String(),
				Representation: repr,
				Width:          c.width,
				Reason:         fmt.Sprintf("is longer than %d characters", c.width),
				Err:            ErrBadConfig,
			}
		}

		if other, ok := st.byRepr[repr]; ok {
			return nil, &ConfigError{
				Enum:           enum.Name(),
				Member:         m.String(),
				Representation: repr,
				Width:          c.width,
				Reason:         fmt.Sprintf("has the same representation as %s", other),
				Err:            ErrBadConfig,
			}
		}

		st.byName[m.String()] = repr
		st.byRepr[repr] = m
	}

	return st, nil
}

// isNull reports whether v is untyped nil or a nil pointer to the bound type.
func (st *columnState) isNull(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.Type().Elem() == st.enum.Type() && rv.IsNil()
}
