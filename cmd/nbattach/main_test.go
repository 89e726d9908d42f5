// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nbattach/internal/manifest"
	"github.com/pdiddy/nbattach/pkg/types"
)

// resetFlags restores every flag to its default so that values parsed by
// one Execute do not leak into the next.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	for _, c := range []*cobra.Command{rootCmd, extractCmd} {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

func TestExtractCommand(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	nbDir := filepath.Join(dir, "ipynb")
	imgDir := filepath.Join(dir, "shots")
	dbPath := filepath.Join(dir, "manifest.db")

	require.NoError(t, os.MkdirAll(nbDir, 0o755))
	nb := filepath.Join(nbDir, "lesson.ipynb")
	require.NoError(t, os.WriteFile(nb, []byte(
		`{"cells": [{"attachments": {"a b.png": {"image/png": "aGk="}}, "source": ["![x](<attachment:a b.png>)"]}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(nbDir, "empty.ipynb"), nil, 0o644))

	rootCmd.SetArgs([]string{"extract",
		"--notebooks-dir", nbDir,
		"--images-dir", imgDir,
		"--ref-prefix", "../shots",
		"--manifest", dbPath,
	})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(filepath.Join(imgDir, "a_b.png"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
	assert.FileExists(t, nb+".bak")

	rewritten, err := os.ReadFile(nb)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "![x](../shots/a_b.png)")
	assert.NotContains(t, string(rewritten), "attachments")

	store, err := manifest.Open(types.ManifestConfig{Path: dbPath})
	require.NoError(t, err)
	defer store.Close()

	images, err := store.Images(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "a b.png", images[0].Attachment)

	runs, err := store.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, manifest.RunCounts{Updated: 1, Skipped: 1, Images: 1}, runs[0].Counts)
}

func TestRootCommand_UsesEnvironment(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	nbDir := filepath.Join(dir, "notebooks")
	imgDir := filepath.Join(dir, "images")

	require.NoError(t, os.MkdirAll(filepath.Join(nbDir, "unit1"), 0o755))
	nb := filepath.Join(nbDir, "unit1", "intro.ipynb")
	require.NoError(t, os.WriteFile(nb, []byte(
		`{"cells": [{"attachments": {"plot.png": {"image/png": "aGk="}}, "source": ["see (<attachment:plot.png>)"]}]}`), 0o644))

	t.Setenv("NBATTACH_NOTEBOOKS_DIR", nbDir)
	t.Setenv("NBATTACH_IMAGES_DIR", imgDir)
	t.Setenv("NBATTACH_IMAGE_REF_PREFIX", "/static/img")

	rootCmd.SetArgs([]string{})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(filepath.Join(imgDir, "plot.png"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
	assert.FileExists(t, nb+".bak")

	rewritten, err := os.ReadFile(nb)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "see (/static/img/plot.png)")
}

func TestExtractCommand_MissingNotebooksDir(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "manifest.db")

	rootCmd.SetArgs([]string{"extract",
		"--notebooks-dir", filepath.Join(dir, "absent"),
		"--images-dir", filepath.Join(dir, "shots"),
		"--manifest", dbPath,
	})
	require.NoError(t, rootCmd.Execute())
	assert.NoDirExists(t, filepath.Join(dir, "shots"))

	store, err := manifest.Open(types.ManifestConfig{Path: dbPath})
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, manifest.RunCounts{}, runs[0].Counts)
}
