/*
Package gormenum wires enumcol Columns into GORM.

An enumeration type opts in by implementing [enumcol.Columner],
[database/sql.Scanner] and [database/sql/driver.Valuer] through an [enumcol.Typed],
and GormDBDataType through [DataType]:

	var answerColumn = enumcol.Bind[Answer]("enum_answer")

	func (Answer) EnumColumn() *enumcol.Column                          { return answerColumn.Column() }
	func (Answer) GormDBDataType(db *gorm.DB, f *schema.Field) string   { return gormenum.DataType(answerColumn.Column(), db, f) }
	func (a Answer) Value() (driver.Value, error)                       { return answerColumn.Value(a) }
	func (a *Answer) Scan(src any) error                                { return answerColumn.Scan(a, src) }

[CommentHints] lists the schema comments GORM models need so a reader of the schema can tell
which Column produced a VARCHAR column.
*/
package gormenum
