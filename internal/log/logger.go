// Package log provides a global logger with configurable logging level. Messages go to stderr
// unless redirected with [SetOutput], which the terminal front end uses to keep log lines from
// tearing the remote's display.

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelNone    Level = iota // Disables logging.
	LevelError                // Logs anomalies that are not expected to occur during normal use.
	LevelWarning              // Logs anomalies that are expected to occur occasionally, such as a busy radio.
	LevelInfo                 // Logs major events: radio claimed, radio released.
	LevelDebug                // Logs every transition and advertised payload.
)

var (
	globalLogLevel Level = LevelWarning
	output         io.Writer = os.Stderr
	logMutex       sync.Mutex
)

var labels = map[Level]string{
	LevelDebug:   "[debug]",
	LevelInfo:    "[info ]",
	LevelWarning: "[warn ]",
	LevelError:   "[error]",
}

var levelNames = map[string]Level{
	"none":    LevelNone,
	"error":   LevelError,
	"warn":    LevelWarning,
	"warning": LevelWarning,
	"info":    LevelInfo,
	"debug":   LevelDebug,
}

// ParseLevel converts a level name (none, error, warn, info, debug) into a Level.
func ParseLevel(name string) (Level, error) {
	if level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return level, nil
	}
	return LevelNone, fmt.Errorf("unknown log level '%s'", name)
}

func (l Level) String() string {
	for name, level := range levelNames {
		if level == l && name != "warning" {
			return name
		}
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func SetLevel(level Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	globalLogLevel = level
}

// SetOutput redirects log messages to w. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

func log(level Level, format string, a ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	if level > globalLogLevel {
		return
	}
	msg := fmt.Sprintf("%s %s ", time.Now().Format(time.RFC3339), labels[level])
	msg += fmt.Sprintf(format, a...)
	fmt.Fprintln(output, msg)
}

func Debug(format string, a ...interface{}) {
	log(LevelDebug, format, a...)
}
func Info(format string, a ...interface{}) {
	log(LevelInfo, format, a...)
}
func Warning(format string, a ...interface{}) {
	log(LevelWarning, format, a...)
}
func Error(format string, a ...interface{}) {
	log(LevelError, format, a...)
}
