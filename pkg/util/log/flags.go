// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// logging holds the process-wide logger configuration.
var logging struct {
	mu     sync.Mutex
	logger zerolog.Logger

	// verbosity is the level up to which V and VEventf are enabled.
	verbosity atomic.Int32

	// redactable, when set, keeps redaction markers in log messages so that
	// unsafe values can be stripped from the logs later.
	redactable atomic.Bool
}

func init() {
	SetOutput(os.Stderr)
}

// SetOutput redirects all log messages to w. Output is rendered in a human
// readable format, colorized only if w is a terminal.
func SetOutput(w io.Writer) {
	cw := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}
	setLogger(zerolog.New(cw).With().Timestamp().Logger())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// SetJSONOutput redirects all log messages to w as one JSON object per line.
func SetJSONOutput(w io.Writer) {
	setLogger(zerolog.New(w).With().Timestamp().Logger())
}

func setLogger(l zerolog.Logger) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	logging.logger = l
}

func getLogger() zerolog.Logger {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	return logging.logger
}

// SetVerbosity sets the verbosity level for V and VEventf and returns the
// previous level.
func SetVerbosity(level int32) int32 {
	return logging.verbosity.Swap(level)
}

// SetRedactable configures whether log messages keep redaction markers
// around unsafe values. It returns the previous setting.
func SetRedactable(redactable bool) bool {
	return logging.redactable.Swap(redactable)
}

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return logging.verbosity.Load() >= level
}
