package enumcol

import "log/slog"

const LogKindKey = "kind"

var (
	AppLogKind       = slog.StringValue("app")
	MigrationLogKind = slog.StringValue("migration")
)

// NewLogLevel parses val into a [log/slog.Level],
// defaulting to [log/slog.LevelInfo] when val is not a known level.
func NewLogLevel(val string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(val)); err != nil {
		return slog.LevelInfo
	}

	return l
}
