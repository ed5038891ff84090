// Package logger provides namespace-scoped debug logging gated by the
// DEBUG environment variable, in the style of the npm debug package.
//
// Loggers are cheap to create and silent unless their namespace matches
// one of the comma-separated patterns in DEBUG:
//
//	DEBUG=*                     enable everything
//	DEBUG=runner:*              enable the runner namespace
//	DEBUG=runner:*,execute:*    enable multiple namespaces
//	DEBUG=*,-execute:probe      enable everything except one logger
//
// Output goes to stderr so it never interferes with the workflow-command
// protocol written to stdout.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes debug messages for a single namespace.
type Logger struct {
	namespace string
	enabled   bool

	mu   sync.Mutex
	last time.Time
}

// New creates a logger for the given namespace. The DEBUG environment
// variable is consulted once, at creation time.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   matches(namespace, os.Getenv("DEBUG")),
	}
}

// Enabled reports whether this logger's namespace matched DEBUG.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf logs a formatted message. It is a no-op when the logger is
// disabled, so callers may log unconditionally on hot paths.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Print logs arguments concatenated like fmt.Sprint.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprint(args...))
}

func (l *Logger) write(message string) {
	l.mu.Lock()
	now := time.Now()
	var elapsed time.Duration
	if !l.last.IsZero() {
		elapsed = now.Sub(l.last)
	}
	l.last = now
	l.mu.Unlock()

	fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, message, elapsed)
}

// matches evaluates the DEBUG pattern list against a namespace. Skip
// patterns (prefixed with '-') win over enabling patterns.
func matches(namespace, patterns string) bool {
	if patterns == "" {
		return false
	}

	enabled := false
	for _, pattern := range strings.Split(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if negated, ok := strings.CutPrefix(pattern, "-"); ok {
			if matchOne(namespace, negated) {
				return false
			}
			continue
		}
		if matchOne(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

// matchOne matches a single pattern, with '*' as a trailing wildcard.
func matchOne(namespace, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(namespace, prefix)
	}
	return namespace == pattern
}
