// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"warn", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.NotebookSkipped("a.ipynb", "empty file")
	l.ImageFailed("a.ipynb", "x.png", errors.New("disk full"))
	l.Collision("screenshots/x.png", "a.ipynb", "b.ipynb")

	out := buf.String()
	assert.Contains(t, out, "notebook skipped")
	assert.Contains(t, out, "empty file")
	assert.Contains(t, out, "disk full")
	assert.Contains(t, out, "image overwritten")
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.InfoLevel)

	l.ImageWritten("a.ipynb", "x.png", "screenshots/x.png", 10)
	assert.Empty(t, buf.String())
}
