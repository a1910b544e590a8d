// Package logger builds the zerolog loggers used across the client.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const filePermission = 0o664

// Build accumulates logger configuration before Make.
type Build struct {
	writer  io.Writer
	path    string
	level   zerolog.Level
	console bool
}

// New starts a logger build at the warn level writing to stderr.
func New() *Build {
	return &Build{level: zerolog.WarnLevel}
}

// ToWriter directs output to w.
func (b *Build) ToWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// ToPath appends output to the file at path.
func (b *Build) ToPath(path string) *Build {
	b.path = path
	return b
}

// Level sets the minimum level.
func (b *Build) Level(level zerolog.Level) *Build {
	b.level = level
	return b
}

// LevelString sets the minimum level from a config string, keeping the
// current level when the string is empty or does not parse.
func (b *Build) LevelString(s string) *Build {
	if s == "" {
		return b
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(s)); err == nil {
		b.level = lvl
	}
	return b
}

// Console switches to human-readable console output instead of JSON.
func (b *Build) Console() *Build {
	b.console = true
	return b
}

// Make materializes the logger.
func (b *Build) Make() (zerolog.Logger, error) {
	writer := b.writer
	if b.path != "" {
		file, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
		if err != nil {
			return zerolog.Nop(), err
		}
		writer = zerolog.SyncWriter(file)
	}
	if writer == nil {
		writer = os.Stderr
	}
	if b.console {
		writer = zerolog.ConsoleWriter{Out: writer}
	}
	return zerolog.New(writer).Level(b.level).With().Timestamp().Logger(), nil
}
