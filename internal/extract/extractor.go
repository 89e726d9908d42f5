// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract moves base64 image attachments out of notebook cells into
// standalone files and rewrites the markdown that referenced them.
package extract

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/nbattach/internal/imageinfo"
	"github.com/pdiddy/nbattach/internal/logger"
	"github.com/pdiddy/nbattach/internal/notebook"
	"github.com/pdiddy/nbattach/internal/styles"
	"github.com/pdiddy/nbattach/pkg/types"
)

const imageMIMEPrefix = "image/"

// Recorder receives every image the extractor writes. A Recorder error is
// logged and does not affect the notebook being processed.
type Recorder interface {
	RecordImage(img types.ExtractedImage) error
}

// Options carries the collaborators of an Extractor. Zero values are valid:
// status lines are discarded, logging is discarded, and nothing is recorded.
type Options struct {
	Status   io.Writer
	Logger   *logger.Logger
	Recorder Recorder
}

// Extractor processes notebooks one at a time.
type Extractor struct {
	cfg      types.ExtractConfig
	status   io.Writer
	log      *logger.Logger
	recorder Recorder

	// written maps each output file to the attachment that last wrote it
	// during this extractor's lifetime.
	written map[string]string
}

// FileResult holds the outcome of processing one notebook.
type FileResult struct {
	Path   string
	Status types.ExtractStatus
	Images []types.ExtractedImage
	Backup string
	Err    error
}

// New returns an Extractor for cfg. Empty config fields take their defaults.
func New(cfg types.ExtractConfig, opts Options) *Extractor {
	e := &Extractor{
		cfg:      cfg.WithDefaults(),
		status:   opts.Status,
		log:      opts.Logger,
		recorder: opts.Recorder,
		written:  make(map[string]string),
	}
	if e.status == nil {
		e.status = io.Discard
	}
	if e.log == nil {
		e.log = logger.Discard()
	}
	return e
}

// Config returns the effective configuration.
func (e *Extractor) Config() types.ExtractConfig {
	return e.cfg
}

// ExtractNotebook extracts the image attachments of the notebook at path.
// The notebook is rewritten, with the original kept at path+BackupSuffix,
// only when at least one image was written. Empty, unparsable, and
// unreadable files are reported and left untouched. A symlinked notebook is
// rewritten at its target so the link keeps pointing at the new content.
func (e *Extractor) ExtractNotebook(path string) FileResult {
	res := FileResult{Path: path}
	name := filepath.Base(path)

	target := path
	if li, err := os.Lstat(path); err == nil && li.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return e.fail(res, types.StatusReadError, fmt.Errorf("resolving %s: %w", path, err))
		}
		target = resolved
	}

	info, err := os.Stat(target)
	if err != nil {
		return e.fail(res, types.StatusReadError, fmt.Errorf("reading %s: %w", path, err))
	}
	if info.Size() == 0 {
		e.log.NotebookSkipped(path, "empty file")
		fmt.Fprintf(e.status, "%s %s (empty file)\n", styles.WarningStyle.Render("skipped:"), path)
		res.Status = types.StatusSkippedEmpty
		return res
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return e.fail(res, types.StatusReadError, fmt.Errorf("reading %s: %w", path, err))
	}
	if !utf8.Valid(data) {
		return e.fail(res, types.StatusReadError, fmt.Errorf("reading %s: %w", path, errNotUTF8))
	}

	doc, err := notebook.Parse(data)
	if err != nil {
		e.log.NotebookSkipped(path, err.Error())
		fmt.Fprintf(e.status, "%s %s (invalid JSON)\n", styles.WarningStyle.Render("skipped:"), path)
		res.Status = types.StatusSkippedInvalidJSON
		res.Err = err
		return res
	}

	cells, images := e.transformCells(path, doc.Cells())
	res.Images = images

	if len(images) == 0 {
		fmt.Fprintf(e.status, "%s %s (no attachments found)\n", styles.DimStyle.Render("unchanged:"), name)
		res.Status = types.StatusNoAttachments
		return res
	}

	doc.SetCells(cells)
	out, err := doc.Marshal()
	if err != nil {
		return e.fail(res, types.StatusWriteError, fmt.Errorf("encoding %s: %w", path, err))
	}

	backup, err := e.replace(target, out, info.Mode().Perm())
	res.Backup = backup
	if err != nil {
		return e.fail(res, types.StatusWriteError, err)
	}

	fmt.Fprintf(e.status, "%s %s (%d image(s), backup: %s)\n",
		styles.SuccessStyle.Render("updated:"), name, len(images), filepath.Base(backup))
	res.Status = types.StatusUpdated
	return res
}

func (e *Extractor) fail(res FileResult, status types.ExtractStatus, err error) FileResult {
	e.log.NotebookError(res.Path, err)
	fmt.Fprintf(e.status, "%s %s (%v)\n", styles.ErrorStyle.Render("failed:"), res.Path, err)
	res.Status = status
	res.Err = err
	return res
}

// transformCells builds a new cell list in which every cell that carried an
// attachments map has it removed and its source references rewritten for
// each image written. Cells without attachments are passed through as-is.
func (e *Extractor) transformCells(path string, cells []any) ([]any, []types.ExtractedImage) {
	out := make([]any, len(cells))
	var images []types.ExtractedImage

	for i, c := range cells {
		cell, ok := c.(*notebook.Object)
		if !ok {
			out[i] = c
			continue
		}
		atts, has := notebook.Attachments(cell)
		if !has {
			out[i] = cell
			continue
		}

		for _, att := range atts {
			for _, entry := range att.Entries {
				if !strings.HasPrefix(entry.Type, imageMIMEPrefix) {
					continue
				}
				img, err := e.writeImage(path, i, att.Name, entry)
				if err != nil {
					e.log.ImageFailed(path, att.Name, err)
					fmt.Fprintf(e.status, "%s %s in %s (%v)\n",
						styles.ErrorStyle.Render("image failed:"), att.Name, filepath.Base(path), err)
					continue
				}
				cell = notebook.ReplaceInSource(cell,
					AttachmentRef(att.Name), ImageRef(e.cfg.ImageRefPrefix, filepath.Base(img.File)))
				images = append(images, img)
			}
		}

		out[i] = notebook.WithoutAttachments(cell)
	}

	return out, images
}

var (
	errUnsafeName = errors.New("attachment name escapes the images directory")
	errNotUTF8    = errors.New("content is not valid UTF-8")
)

func (e *Extractor) writeImage(path string, cell int, name string, entry notebook.MIMEEntry) (types.ExtractedImage, error) {
	safe := SafeFilename(name)
	if !filepath.IsLocal(safe) || strings.ContainsAny(safe, `/\`) {
		return types.ExtractedImage{}, fmt.Errorf("%w: %q", errUnsafeName, name)
	}

	if err := os.MkdirAll(e.cfg.ImagesDir, 0o755); err != nil {
		return types.ExtractedImage{}, fmt.Errorf("creating images directory: %w", err)
	}

	data, err := decodePayload(entry.Data)
	if err != nil {
		return types.ExtractedImage{}, fmt.Errorf("decoding %s payload: %w", entry.Type, err)
	}

	dest := filepath.Join(e.cfg.ImagesDir, safe)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return types.ExtractedImage{}, fmt.Errorf("writing %s: %w", dest, err)
	}
	e.log.ImageWritten(path, name, dest, len(data))

	source := fmt.Sprintf("%s cell %d (%s)", path, cell, name)
	if prev, ok := e.written[dest]; ok && prev != source {
		e.log.Collision(dest, prev, source)
	}
	e.written[dest] = source

	sum := sha256.Sum256(data)
	img := types.ExtractedImage{
		Notebook:   path,
		Cell:       cell,
		Attachment: name,
		MIMEType:   entry.Type,
		File:       dest,
		Size:       len(data),
		SHA256:     hex.EncodeToString(sum[:]),
	}
	if info, err := imageinfo.Probe(data); err == nil {
		img.Width, img.Height, img.Format = info.Width, info.Height, info.Format
	}

	if e.recorder != nil {
		if err := e.recorder.RecordImage(img); err != nil {
			e.log.ManifestError("record image", err)
		}
	}
	return img, nil
}

// decodePayload decodes standard base64, ignoring embedded whitespace.
func decodePayload(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
}

// replace moves the notebook at path to its backup and writes data in its
// place. Without AtomicWrite the rename happens first, leaving a window in
// which only the backup exists. A failed write is not rolled back.
func (e *Extractor) replace(path string, data []byte, perm os.FileMode) (string, error) {
	backup := path + e.cfg.BackupSuffix

	if !e.cfg.AtomicWrite {
		if err := os.Rename(path, backup); err != nil {
			return "", fmt.Errorf("backing up %s: %w", path, err)
		}
		if err := os.WriteFile(path, data, perm); err != nil {
			return backup, fmt.Errorf("writing %s: %w", path, err)
		}
		return backup, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}

	if err := os.Rename(path, backup); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("backing up %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return backup, fmt.Errorf("replacing %s: %w", path, err)
	}
	return backup, nil
}
