// Package logger configures the logging backend shared by the nbinom
// command and the distribution package
package logger

import (
	"io"
	"os"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"
)

// LogLevelFlag sets the level of the logging of an app action
var LogLevelFlag = cli.StringFlag{
	Name:    "log",
	Aliases: []string{"l"},
	Usage:   "Level of the logging of the app action (\"critical\", \"error\", \"warning\", \"notice\", \"info\", \"debug\"; default: INFO)",
	Value:   "info",
}

// defaultLogFormat defines the format used for log output.
const (
	defaultLogFormat = "%{time:2006/01/02 15:04:05} %{color}%{level:-8s} %{shortpkg}/%{shortfunc}%{color:reset}: %{message}"
)

// Logger is responsible for logging any info to user.
// Critical should be used a potential unexpected behaviour that could lead to fatal state.
// Error should be used to print any error state.
// Warning should be used for a potential unexpected behaviour, though not fatal.
// Notice should be used to inform user about a milestone.
// Info should be used for repeated messages (sampled batch element 3 etc...).
// Debug is used by the distribution package to trace graph construction.
type Logger interface {
	Critical(args ...interface{})
	Criticalf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Warning(args ...interface{})
	Warningf(format string, args ...interface{})
	Notice(args ...interface{})
	Noticef(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
}

// NewLogger provides a new instance of the Logger based on context flags.
// Output goes to os.Stderr so that it does not mix with command output.
func NewLogger(level string, module string) *logging.Logger {
	return NewLoggerTo(os.Stderr, level, module)
}

// NewLoggerTo is like NewLogger, but writes to w. Unknown levels fall back
// to INFO. The level applies to all modules, including the distribution
// package.
func NewLoggerTo(w io.Writer, level string, module string) *logging.Logger {
	backend := logging.NewLogBackend(w, "", 0)

	fm := logging.MustStringFormatter(defaultLogFormat)
	fmtBackend := logging.NewBackendFormatter(backend, fm)

	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.INFO
	}
	lvlBackend := logging.AddModuleLevel(fmtBackend)
	lvlBackend.SetLevel(lvl, "")

	logging.SetBackend(lvlBackend)
	return logging.MustGetLogger(module)
}
