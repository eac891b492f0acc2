package enumcol

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

const (
	commentHintPrefix = "(enumcol:"
	commentHintSuffix = ")"
)

// CommentHint formats the schema comment recording that a column holds the Column registered as name.
func CommentHint(name string) string {
	return commentHintPrefix + name + commentHintSuffix
}

// ParseCommentHint extracts the Column name from a schema comment produced by CommentHint.
// The hint may be surrounded by other text.
func ParseCommentHint(comment string) (string, bool) {
	_, after, ok := strings.Cut(comment, commentHintPrefix)
	if !ok {
		return "", false
	}

	name, _, ok := strings.Cut(after, commentHintSuffix)
	if !ok || name == "" {
		return "", false
	}

	return name, true
}

// A Registry maps logical type names to the Columns a host ORM resolves them to.
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	columns map[string]*Column
}

// DefaultRegistry is the Registry used by AddType, GetType, HasType and MustAddType.
var DefaultRegistry = NewRegistry()

// NewRegistry constructs an empty *Registry.
func NewRegistry() *Registry {
	return &Registry{columns: make(map[string]*Column)}
}

// AddType registers c under c.Name().
// AddType returns ErrBadConfig if c has no name or the name is taken.
func (r *Registry) AddType(c *Column) error {
	if c == nil || c.Name() == "" {
		return fmt.Errorf("%w: column has no name", ErrBadConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.columns[c.Name()]; ok {
		return fmt.Errorf("%w: type %q is already registered", ErrBadConfig, c.Name())
	}

	r.columns[c.Name()] = c

	return nil
}

// GetType retrieves the Column registered as name or ErrNotExist.
func (r *Registry) GetType(name string) (*Column, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: type %q", ErrNotExist, name)
	}

	return c, nil
}

// HasType asserts whether a Column is registered as name.
func (r *Registry) HasType(name string) bool {
	_, err := r.GetType(name)
	return err == nil
}

// Names lists registered type names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.columns))
	for name := range r.columns {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)

	return names
}

// Validate validates every registered Column, joining any errors.
func (r *Registry) Validate() error {
	var errs []error
	for _, name := range r.Names() {
		c, err := r.GetType(name)
		if err != nil {
			continue
		}

		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("type %q: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// AddType registers c with DefaultRegistry.
func AddType(c *Column) error { return DefaultRegistry.AddType(c) }

// MustAddType is like AddType but panics if c cannot be registered.
func MustAddType(c *Column) *Column {
	if err := AddType(c); err != nil {
		panic(err)
	}

	return c
}

// GetType retrieves the Column registered as name with DefaultRegistry.
func GetType(name string) (*Column, error) { return DefaultRegistry.GetType(name) }

// HasType asserts whether a Column is registered as name with DefaultRegistry.
func HasType(name string) bool { return DefaultRegistry.HasType(name) }
