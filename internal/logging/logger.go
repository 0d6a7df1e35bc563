package logging

import (
	"io"
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup installs the JSON stdout logger as the process default.
func Setup() {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout)))
}

// NewJSONHandler returns the INFO-level JSON handler used for console output.
func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// InstallDBSink makes the default logger write to stdout and to the
// system_logs table. Callers must Stop the returned handler on shutdown.
func InstallDBSink(db *gorm.DB) *DBHandler {
	sink := NewDBHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(NewJSONHandler(os.Stdout), sink)))
	return sink
}
