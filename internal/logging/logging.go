// Package logging configures the logrus instance shared by the simulation
// engine and the CLI, following the retrieved pack's utils/logger.go
// convention (level + output destination, JSON for anything other than a
// human-facing terminal).
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger at the given level ("debug", "info", "warn",
// "error"; anything else falls back to info), writing to stdout, or to a
// file at path if path is non-empty.
func New(level, path string) *logrus.Logger {
	log := logrus.New()

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	if path == "" {
		log.SetOutput(os.Stdout)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return log
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.SetOutput(os.Stdout)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.WithError(err).Warnf("failed to open log file %s, using stdout", path)
		return log
	}
	log.SetOutput(file)
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	return log
}
