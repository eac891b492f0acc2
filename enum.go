package enumcol

import (
	"fmt"
	"reflect"
	"sync"
)

// Enumerable is the interface implemented by types that can only be represented by enumerable, constant values.
//
// String returns the canonical name of a member, unique within its type.
// Valid returns nil for every declared member and ErrNotValid for anything else.
//
// Implementing a new Enumerable or adding a new constant value ought to include updating the database with the same
// types and values.
type Enumerable interface {
	String() string
	Valid() error
}

var enumerableType = reflect.TypeFor[Enumerable]()

// An Enumeration is the closed, ordered set of members of a single Enumerable type.
//
// Enumerations are built once, at process start, with Define or MustDefine
// and are safe for concurrent use afterwards.
type Enumeration struct {
	typ     reflect.Type
	members []Enumerable
	byName  map[string]Enumerable
}

var enumerations = struct {
	sync.RWMutex
	m map[reflect.Type]*Enumeration
}{m: make(map[reflect.Type]*Enumeration)}

// Define records members as the complete set of values of E.
//
// Define returns ErrBadConfig if no members are provided,
// if any member is not valid or has no name,
// if two members share a name,
// or if E has already been defined.
func Define[E Enumerable](members ...E) (*Enumeration, error) {
	typ := reflect.TypeFor[E]()
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s has no members", ErrBadConfig, typ)
	}

	e := &Enumeration{
		typ:     typ,
		members: make([]Enumerable, 0, len(members)),
		byName:  make(map[string]Enumerable, len(members)),
	}

	for _, m := range members {
		if err := m.Valid(); err != nil {
			return nil, fmt.Errorf("%w: %s member %q: %s", ErrBadConfig, typ, m.String(), err)
		}

		name := m.String()
		if name == "" {
			return nil, fmt.Errorf("%w: %s has a member with no name", ErrBadConfig, typ)
		}

		if _, ok := e.byName[name]; ok {
			return nil, fmt.Errorf("%w: %s declares %q more than once", ErrBadConfig, typ, name)
		}

		e.members = append(e.members, m)
		e.byName[name] = m
	}

	enumerations.Lock()
	defer enumerations.Unlock()

	if _, ok := enumerations.m[typ]; ok {
		return nil, fmt.Errorf("%w: %s is already defined", ErrBadConfig, typ)
	}

	enumerations.m[typ] = e

	return e, nil
}

// MustDefine is like Define but panics if the enumeration cannot be defined.
// It simplifies safe initialization of package-level variables.
func MustDefine[E Enumerable](members ...E) *Enumeration {
	e, err := Define(members...)
	if err != nil {
		panic(err)
	}

	return e
}

// Lookup retrieves the Enumeration defined for typ.
//
// Lookup returns a *ConfigError if typ does not implement Enumerable
// or if typ was never passed to Define.
func Lookup(typ reflect.Type) (*Enumeration, error) {
	if typ == nil {
		return nil, &ConfigError{Enum: "<nil>", Reason: "is not a type", Err: ErrBadConfig}
	}

	if !typ.Implements(enumerableType) {
		return nil, &ConfigError{
			Enum:   typ.String(),
			Reason: fmt.Sprintf("does not implement %s", enumerableType),
			Err:    ErrBadConfig,
		}
	}

	enumerations.RLock()
	e, ok := enumerations.m[typ]
	enumerations.RUnlock()

	if !ok {
		return nil, &ConfigError{Enum: typ.String(), Reason: "is not a defined enumeration", Err: ErrBadConfig}
	}

	return e, nil
}

// Type returns the Go type of the members of e.
func (e *Enumeration) Type() reflect.Type { return e.typ }

// Name returns the qualified name of the Go type of the members of e.
func (e *Enumeration) Name() string { return e.typ.String() }

// Len returns the number of members in e.
func (e *Enumeration) Len() int { return len(e.members) }

// Members returns a copy of the members of e in declaration order.
func (e *Enumeration) Members() []Enumerable {
	out := make([]Enumerable, len(e.members))
	copy(out, e.members)

	return out
}

// ValueOf returns the member named name or ErrNotExist.
func (e *Enumeration) ValueOf(name string) (Enumerable, error) {
	m, ok := e.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no member %q", ErrNotExist, e.typ, name)
	}

	return m, nil
}

// Contains asserts whether v is a declared member of e.
// Pointers to members are dereferenced.
func (e *Enumeration) Contains(v any) bool {
	_, ok := e.member(v)
	return ok
}

// member resolves v to the declared member it equals.
func (e *Enumeration) member(v any) (Enumerable, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}

	if rv.Kind() == reflect.Pointer && rv.Type().Elem() == e.typ {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	if rv.Type() != e.typ {
		return nil, false
	}

	en, ok := rv.Interface().(Enumerable)
	if !ok || en.Valid() != nil {
		return nil, false
	}

	m, ok := e.byName[en.String()]
	if !ok {
		return nil, false
	}

	return m, true
}
