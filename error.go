package enumcol

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrBadConfig       = errors.New("bad config")
	ErrConversion      = errors.New("conversion failed")
	ErrNotExist        = errors.New("not exist")
	ErrNotValid        = errors.New("invalid")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrUnhandledMember = errors.New("unhandled member")
)

// A ConfigError reports a Column or Enumeration that can never be used.
// It is a programming defect and ought to surface at process start.
//
// A ConfigError wraps ErrBadConfig.
type ConfigError struct {
	// Enum is the name of the type bound to the column.
	Enum string

	// Member and Representation are set when a single member is at fault.
	Member         string
	Representation string

	// Width is the column width, when relevant.
	Width int

	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(e.Enum)
	if e.Member != "" {
		fmt.Fprintf(&b, " member %s", e.Member)
		if e.Representation != "" && e.Representation != e.Member {
			fmt.Fprintf(&b, " (represented as %q)", e.Representation)
		}
	}

	b.WriteString(" ")
	b.WriteString(e.Reason)

	return fmt.Sprintf("%s: %s", e.Err, b.String())
}

func (e *ConfigError) Unwrap() error { return e.Err }

// A ConversionError reports a value that could not be converted
// between its Go and database representations.
//
// A ConversionError wraps ErrTypeMismatch when Value has the wrong type
// or ErrConversion when Value is well-typed but matches no member.
type ConversionError struct {
	// Value is the offending value.
	Value any

	// TypeName is the logical type name of the Column.
	TypeName string

	// Expected lists the types Value may have. It is empty for ErrConversion.
	Expected []string

	Err error
}

func (e *ConversionError) Error() string {
	if len(e.Expected) > 0 {
		return fmt.Sprintf(
			"%s: could not convert value %s to type %s: expected one of the following types: %s",
			e.Err,
			describe(e.Value),
			e.TypeName,
			strings.Join(e.Expected, ", "),
		)
	}

	return fmt.Sprintf("%s: could not convert database value %s to type %s", e.Err, describe(e.Value), e.TypeName)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// An UnhandledMemberError reports a member a custom representation does not map.
//
// An UnhandledMemberError wraps ErrUnhandledMember.
type UnhandledMemberError struct {
	Enum   string
	Member string
}

// Unhandled constructs the error a representation function returns for a member it does not map.
func Unhandled(member Enumerable) error {
	return &UnhandledMemberError{Enum: fmt.Sprintf("%T", member), Member: member.String()}
}

func (e *UnhandledMemberError) Error() string {
	return fmt.Sprintf("%s: %s member %s has no representation", ErrUnhandledMember, e.Enum, e.Member)
}

func (e *UnhandledMemberError) Unwrap() error { return ErrUnhandledMember }

func describe(v any) string {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return fmt.Sprintf("nil of type %T", v)
	}

	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", t)
	case []byte:
		return fmt.Sprintf("%q", t)
	case fmt.Stringer, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return fmt.Sprintf("'%v' of type %T", v, v)
	default:
		return fmt.Sprintf("of type %T", v)
	}
}
