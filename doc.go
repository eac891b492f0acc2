/*
Package enumcol persists [Enumerable] values as strings in fixed-width text columns.

# Overview

An [Enumeration] is the closed set of members of one Go type, defined once with [Define] or [MustDefine].
A [Column] binds an Enumeration to a logical type name, a column width and a representation,
the string each member is stored as.
By default, a member's representation is its String value and the width is [DefaultWidth].

A Column validates itself the first time it is used:
the bound type must be a defined Enumeration
and no representation may be longer than the width.
That way, no value can be silently truncated by the database.

# Host ORMs

A Column performs no I/O. The ORM calls into it:
  - [Column.ColumnDeclaration] when generating a schema
  - [Column.ToStorage] when writing a row
  - [Column.FromStorage] when reading a row
  - [Column.RequiresCommentHint] when deciding whether to annotate the column with [CommentHint]

Packages gormenum and bunenum wire Columns into GORM and bun.
A [Registry] maps logical type names to Columns, much like an ORM's own type map.
*/
package enumcol
