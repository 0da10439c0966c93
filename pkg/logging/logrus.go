package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

const jsonFormat = "json"

// Logrus represents the logrus logger
type Logrus struct {
	level  string
	format string
	output io.Writer
}

// NewLogrus creates a new logrus instance
func NewLogrus(level string, output io.Writer) *Logrus {
	return &Logrus{level: level, output: output}
}

// WithFormat selects the output format, "text" (default) or "json"
func (l *Logrus) WithFormat(format string) *Logrus {
	l.format = format
	return l
}

// Get returns a logrus instance based on the specific context
func (l *Logrus) Get(context string) *logrus.Entry {
	log := logrus.New()
	level, err := logrus.ParseLevel(l.level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if l.format == jsonFormat {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.SetOutput(l.output)
	logger := log.WithFields(logrus.Fields{
		"Context": context,
	})

	return logger
}
