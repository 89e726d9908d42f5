// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger wraps charm/log with helpers for the events the extractor
// reports.
package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging.
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w at info level.
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level.
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// ParseLevel converts a level name (debug, info, warn, error) into a log.Level.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return New(io.Discard)
}

// NotebookSkipped logs a notebook left untouched.
func (l *Logger) NotebookSkipped(file, reason string) {
	l.Warn("notebook skipped",
		"file", file,
		"reason", reason)
}

// NotebookError logs an I/O error that stopped a notebook from being processed.
func (l *Logger) NotebookError(file string, err error) {
	l.Error("notebook error",
		"file", file,
		"error", err)
}

// ImageWritten logs an extracted attachment.
func (l *Logger) ImageWritten(notebook, attachment, dest string, size int) {
	l.Debug("image written",
		"notebook", notebook,
		"attachment", attachment,
		"dest", dest,
		"bytes", size)
}

// ImageFailed logs an attachment that could not be decoded or written.
func (l *Logger) ImageFailed(notebook, attachment string, err error) {
	l.Error("image not saved",
		"notebook", notebook,
		"attachment", attachment,
		"error", err)
}

// Collision logs an output file written a second time in the same run.
func (l *Logger) Collision(dest, previous, current string) {
	l.Warn("image overwritten",
		"dest", dest,
		"previous", previous,
		"current", current)
}

// ManifestError logs a manifest operation that failed.
func (l *Logger) ManifestError(operation string, err error) {
	l.Error("manifest error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs the effective paths.
func (l *Logger) ConfigLoaded(notebooksDir, imagesDir, refPrefix string) {
	l.Debug("config loaded",
		"notebooks_dir", notebooksDir,
		"images_dir", imagesDir,
		"ref_prefix", refPrefix)
}

// BatchCompleted logs the end of an extraction run.
func (l *Logger) BatchCompleted(files, images, failed int, duration time.Duration) {
	l.Info("extraction completed",
		"files", files,
		"images", images,
		"failed", failed,
		"duration", duration.Round(time.Millisecond))
}
