package aei

import (
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// LogLevelEnv names the environment variable that enables package logging
// when no logger is passed in options.
const LogLevelEnv = "AEI_LOG_LEVEL"

// defaultLogger returns a null logger unless LogLevelEnv is set.
func defaultLogger() hclog.Logger {
	level := os.Getenv(LogLevelEnv)
	if level == "" {
		return hclog.NewNullLogger()
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "aei",
		Level:      hclog.LevelFromString(level),
		Output:     os.Stderr,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

func loggerOrDefault(l hclog.Logger) hclog.Logger {
	if l != nil {
		return l
	}

	return defaultLogger()
}
