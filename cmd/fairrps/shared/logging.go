package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// LogOptions select where logs go and how verbose they are.
type LogOptions struct {
	Level log.Level
	Debug bool
	File  string
}

// SetupLogger creates the process logger. Logs go to File when set, otherwise
// to stderr. The returned close function must be called on exit.
func SetupLogger(opts LogOptions) (*log.Logger, func() error, error) {
	level := opts.Level
	if opts.Debug {
		level = log.DebugLevel
	}

	var out io.Writer = os.Stderr
	closeFn := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "fairrps",
	})
	return logger, closeFn, nil
}
