// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nbattach/pkg/types"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	RunID      string                 `json:"run_id" yaml:"run_id"`
	Images     []types.ExtractedImage `json:"images" yaml:"images"`
	Collisions []Collision            `json:"collisions,omitempty" yaml:"collisions,omitempty"`
}

// ExportYAML writes the images and collisions of runID to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, runID string, w io.Writer) error {
	doc, err := s.export(ctx, runID)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the images and collisions of runID to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, runID string, w io.Writer) error {
	doc, err := s.export(ctx, runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) export(ctx context.Context, runID string) (*Export, error) {
	runID, err := s.resolveRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	images, err := s.Images(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	collisions, err := s.Collisions(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return &Export{RunID: runID, Images: images, Collisions: collisions}, nil
}
