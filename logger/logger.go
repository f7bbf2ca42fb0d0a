package logger

import (
	"github.com/sirupsen/logrus"
)

var projectLogger = newLogger()

// GetProjectLogger returns the shared project logger.
func GetProjectLogger() *logrus.Entry {
	return projectLogger.WithField("name", "beam")
}

// SetLevel adjusts the verbosity of the shared project logger.
func SetLevel(level logrus.Level) {
	projectLogger.SetLevel(level)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}
