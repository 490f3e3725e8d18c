// Package logging builds the logrus entry handed to every component.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns an entry tagged with the service name. Unknown levels fall
// back to info; format is "text" (full timestamps) or "json".
func New(level, format, service string) *logrus.Entry {
	return NewWithOutput(os.Stderr, level, format, service)
}

// NewWithOutput is New writing to out.
func NewWithOutput(out io.Writer, level, format, service string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(out)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger.WithField("service", service)
}
