// SPDX-License-Identifier: MIT

// Package logging centralizes logrus construction for the engine.
//
// Library entry points take a *logrus.Entry through their WithLogger options
// and default to Discard, so embedding the engine never writes to stderr
// unless the caller asks for it. The CLI builds its logger with New.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Discard returns an entry that drops every record.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)

	return logrus.NewEntry(l)
}

// New returns an entry writing to out at the given level ("debug", "info",
// ...). json selects the JSON formatter instead of text.
func New(out io.Writer, level string, json bool) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging.New(%q): %w", level, err)
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	return logrus.NewEntry(l), nil
}

// OrDiscard returns e, or Discard() when e is nil.
func OrDiscard(e *logrus.Entry) *logrus.Entry {
	if e == nil {
		return Discard()
	}

	return e
}
