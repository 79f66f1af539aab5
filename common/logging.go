package common

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

func getLogger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "oxy-mesh",
		})
		logger.SetLevel(log.InfoLevel)
	})
	return logger
}

// SetLogLevel changes the level of the package logger. Accepts debug, info, warn and error.
//
// Parameters:
//   - level: the level name
//
// Returns:
//   - error: an error if the level name is unknown
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	getLogger().SetLevel(lvl)
	return nil
}

// LogDebug logs msg with alternating key/value pairs at debug level.
func LogDebug(msg string, keyvals ...any) {
	getLogger().Debug(msg, keyvals...)
}

// LogInfo logs msg with alternating key/value pairs at info level.
func LogInfo(msg string, keyvals ...any) {
	getLogger().Info(msg, keyvals...)
}

// LogWarn logs msg with alternating key/value pairs at warn level.
func LogWarn(msg string, keyvals ...any) {
	getLogger().Warn(msg, keyvals...)
}

// LogError logs msg with alternating key/value pairs at error level.
func LogError(msg string, keyvals ...any) {
	getLogger().Error(msg, keyvals...)
}
