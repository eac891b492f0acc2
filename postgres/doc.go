/*
Package postgres manages a GORM connection to PostgreSQL for applications storing enumcol Columns.

Connecting validates every registered enum column before any migration runs,
so a column too narrow for its enumeration stops the application at start up.
Migrations are keyed and run at most once, each in its own transaction.
[CommentHintMigration] annotates enum columns with the comment recording which Column produced them.

When connecting to a database that is simply a target for testing, the public schema is dropped first.
*/
package postgres
