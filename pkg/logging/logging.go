// Package logging provides named logrus loggers sharing one root logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Levels lists the accepted level names, most severe first.
var Levels = []string{"panic", "fatal", "error", "warn", "info", "debug"}

var root = newRoot(os.Stderr)

func newRoot(out io.Writer) *logrus.Logger {
	return &logrus.Logger{
		Out: out,
		Formatter: &logrus.TextFormatter{
			FullTimestamp:    true,
			CallerPrettyfier: shortCaller,
		},
		Hooks:        make(logrus.LevelHooks),
		Level:        logrus.InfoLevel,
		ReportCaller: true,
	}
}

// shortCaller renders the caller as "file.go:042" with no function name.
func shortCaller(f *runtime.Frame) (string, string) {
	return "", fmt.Sprintf("%s:%03d", path.Base(f.File), f.Line)
}

// Root returns the logger every named logger writes through.
func Root() *logrus.Logger {
	return root
}

// Named returns a logger tagged with the component name.
func Named(name string) *logrus.Entry {
	return root.WithField("component", name)
}

// SetLevel changes the root level. The name is case-insensitive.
func SetLevel(level string) error {
	if !ValidLevel(level) {
		return fmt.Errorf("logging: invalid level %q, want one of: %s", level, strings.Join(Levels, ", "))
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	root.SetLevel(lvl)
	return nil
}

// SetOutput redirects the root logger.
func SetOutput(w io.Writer) {
	root.SetOutput(w)
}

// ValidLevel reports whether level names one of Levels.
func ValidLevel(level string) bool {
	level = strings.ToLower(level)
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}
