// Package logging provides the structured logger shared by every cmd/*
// entry point, built on logrus the way the pack's other Go backends
// (Jerly08-sistem_akuntansi, jeremyistyping-CMSProject) configure it.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger configured for a named server: JSON when
// LOG_FORMAT is "json", text otherwise, level from LOG_LEVEL.
func New(service string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log.WithField("service", service).Logger
}
