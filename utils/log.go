package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	baseLogger *logrus.Logger
	Log        *logrus.Entry
)

// Tests and tools that never call InitLogger still get a usable logger.
func init() {
	InitLogger("development")
}

// InitLogger configures the global logger. Production logs are JSON so the
// log shipper can index fields; development keeps the text formatter.
func InitLogger(env string) {
	baseLogger = logrus.New()
	baseLogger.SetOutput(os.Stderr)

	if env == "production" {
		baseLogger.SetFormatter(&logrus.JSONFormatter{})
		baseLogger.SetLevel(logrus.InfoLevel)
	} else {
		baseLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		baseLogger.SetLevel(logrus.DebugLevel)
	}

	Log = baseLogger.WithFields(logrus.Fields{
		"service":        "cricanalyzer-api",
		"is_development": env != "production",
	})
}
