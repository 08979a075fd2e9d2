package logging

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          "shape-transfer",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// SetVerbose switches the global logger to debug level.
func SetVerbose(verbose bool) {
	if verbose {
		logger().SetLevel(log.DebugLevel)
	} else {
		logger().SetLevel(log.InfoLevel)
	}
}

func Debug(msg string, args ...any) {
	logger().Debugf(msg, args...)
}

func Info(msg string, args ...any) {
	logger().Infof(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warnf(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Errorf(msg, args...)
}
