package enumcol

import "log/slog"

// DefaultWidth is the column width used unless WithWidth overrides it.
const DefaultWidth = 32

// An OptFn is a functional option configuring a Column when constructing a new one.
type OptFn func(*Column)

// WithLogger sets the *slog.Logger a Column reports validation with.
func WithLogger(l *slog.Logger) OptFn {
	return func(c *Column) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRepresentation replaces the default name-based mapping between members and stored strings.
//
// fn must map every member of the enumeration.
// Return the error from Unhandled for members fn does not know.
func WithRepresentation(fn func(Enumerable) (string, error)) OptFn {
	return func(c *Column) {
		c.represent = fn
	}
}

// WithWidth sets the maximum number of characters the column stores.
// Override if 32 is too big or too small.
func WithWidth(n int) OptFn {
	return func(c *Column) {
		c.width = n
	}
}
