// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/nbattach/internal/logger"
	"github.com/pdiddy/nbattach/internal/styles"
	"github.com/pdiddy/nbattach/pkg/types"
)

// BatchResult holds the outcome of an extraction run.
type BatchResult struct {
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int

	// Images counts image files written across all notebooks.
	Images int
}

// Total returns the total number of notebooks processed.
func (r BatchResult) Total() int {
	return r.Updated + r.Unchanged + r.Skipped + r.Failed
}

// HasFailures reports whether any notebook could not be read or rewritten.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Add folds one file result into the batch counts.
func (r *BatchResult) Add(res FileResult) {
	switch {
	case res.Status == types.StatusUpdated:
		r.Updated++
	case res.Status == types.StatusNoAttachments:
		r.Unchanged++
	case res.Status.Skipped():
		r.Skipped++
	case res.Status.Failed():
		r.Failed++
	}
	r.Images += len(res.Images)
}

// FindNotebooks walks root recursively and returns the regular files whose
// extension equals ext, in lexical order. Directories whose base name
// matches one of the exclude globs are not descended. Unreadable
// subdirectories are logged and skipped; only a missing or unreadable root
// is an error.
func FindNotebooks(root, ext string, exclude []string, log *logger.Logger) ([]string, error) {
	if log == nil {
		log = logger.Discard()
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("notebooks directory %s: %w", root, err)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path != root && excluded(d.Name(), exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeType != 0 && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// ExtractBatch processes paths sequentially, printing a status line per
// notebook and a summary at the end. A failing notebook never stops the batch.
func (e *Extractor) ExtractBatch(paths []string) BatchResult {
	start := time.Now()

	var result BatchResult
	for _, p := range paths {
		result.Add(e.ExtractNotebook(p))
	}

	fmt.Fprintf(e.status, "\nBatch summary: %d updated, %d unchanged, %d skipped, %d failed (total: %d, images: %d)\n",
		result.Updated, result.Unchanged, result.Skipped, result.Failed, result.Total(), result.Images)
	e.log.BatchCompleted(result.Total(), result.Images, result.Failed, time.Since(start))
	return result
}

// Run finds every notebook under the configured notebooks directory and
// extracts its attachments. A notebooks directory that cannot be walked is
// reported and yields an empty batch.
func (e *Extractor) Run() BatchResult {
	e.log.ConfigLoaded(e.cfg.NotebooksDir, e.cfg.ImagesDir, e.cfg.ImageRefPrefix)

	paths, err := FindNotebooks(e.cfg.NotebooksDir, e.cfg.Extension, e.cfg.Exclude, e.log)
	if err != nil {
		e.log.Warn("no notebooks processed", "error", err)
		fmt.Fprintf(e.status, "%s %v\n", styles.WarningStyle.Render("skipped:"), err)
	}
	return e.ExtractBatch(paths)
}
