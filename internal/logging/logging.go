// internal/logging/logging.go
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. Production logs are JSON; everything
// else gets the text formatter with full timestamps.
func Setup(environment, level string) {
	logrus.SetOutput(os.Stdout)

	if environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
		logrus.WithField("level", level).Warn("Unknown log level, using info")
	}
	logrus.SetLevel(lvl)
}
