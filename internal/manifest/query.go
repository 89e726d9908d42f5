// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"fmt"

	"github.com/pdiddy/nbattach/pkg/types"
)

// Collision is an output file written by more than one attachment in a run.
// Only the last writer's bytes remain on disk.
type Collision struct {
	File    string   `json:"file" yaml:"file"`
	Sources []string `json:"sources" yaml:"sources"`
}

// Images returns the images recorded for runID in insertion order. An
// empty runID selects the latest run.
func (s *Store) Images(ctx context.Context, runID string) ([]types.ExtractedImage, error) {
	runID, err := s.resolveRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT notebook, cell, attachment, COALESCE(mime_type, ''), file, size,
			COALESCE(sha256, ''), COALESCE(width, 0), COALESCE(height, 0), COALESCE(format, '')
		 FROM images WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	var images []types.ExtractedImage
	for rows.Next() {
		var img types.ExtractedImage
		if err := rows.Scan(&img.Notebook, &img.Cell, &img.Attachment, &img.MIMEType, &img.File,
			&img.Size, &img.SHA256, &img.Width, &img.Height, &img.Format); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// Collisions returns the files in runID that more than one distinct
// attachment was written to. Attachments are distinguished by notebook,
// cell, and name, so two cells of one notebook sharing a name collide. An empty runID selects the latest run.
func (s *Store) Collisions(ctx context.Context, runID string) ([]Collision, error) {
	runID, err := s.resolveRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT file, notebook, COALESCE(cell, 0), attachment FROM images
		 WHERE run_id = ? AND file IN (
			SELECT file FROM images WHERE run_id = ?
			GROUP BY file HAVING COUNT(DISTINCT notebook || char(31) || COALESCE(cell, 0) || char(31) || attachment) > 1
		 )
		 ORDER BY file, rowid`, runID, runID)
	if err != nil {
		return nil, fmt.Errorf("querying collisions: %w", err)
	}
	defer rows.Close()

	var (
		out  []Collision
		seen map[string]bool
	)
	for rows.Next() {
		var (
			file, nb, att string
			cell          int
		)
		if err := rows.Scan(&file, &nb, &cell, &att); err != nil {
			return nil, fmt.Errorf("scanning collision: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].File != file {
			out = append(out, Collision{File: file})
			seen = make(map[string]bool)
		}
		src := fmt.Sprintf("%s cell %d (%s)", nb, cell, att)
		if seen[src] {
			continue
		}
		seen[src] = true
		last := &out[len(out)-1]
		last.Sources = append(last.Sources, src)
	}
	return out, rows.Err()
}
