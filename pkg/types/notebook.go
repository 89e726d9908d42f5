// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractStatus classifies the outcome of processing one notebook file.
type ExtractStatus string

const (
	StatusSkippedEmpty       ExtractStatus = "skipped-empty"
	StatusSkippedInvalidJSON ExtractStatus = "skipped-invalid-json"
	StatusReadError          ExtractStatus = "read-error"
	StatusUpdated            ExtractStatus = "updated"
	StatusNoAttachments      ExtractStatus = "no-attachments"
	StatusWriteError         ExtractStatus = "write-error"
)

// Skipped reports whether the file was left untouched because it could not be
// parsed as a notebook.
func (s ExtractStatus) Skipped() bool {
	return s == StatusSkippedEmpty || s == StatusSkippedInvalidJSON
}

// Failed reports whether an I/O error stopped the file from being processed
// or rewritten.
func (s ExtractStatus) Failed() bool {
	return s == StatusReadError || s == StatusWriteError
}

// ExtractedImage describes one image attachment written to the images directory.
type ExtractedImage struct {
	// Notebook is the path of the notebook the attachment came from.
	Notebook string `json:"notebook" yaml:"notebook"`

	// Cell is the zero-based index of the cell holding the attachment.
	Cell int `json:"cell" yaml:"cell"`

	// Attachment is the attachment name as stored in the notebook.
	Attachment string `json:"attachment" yaml:"attachment"`

	// MIMEType is the attachment entry's type (e.g. "image/png").
	MIMEType string `json:"mime_type" yaml:"mime_type"`

	// File is the path the decoded bytes were written to.
	File string `json:"file" yaml:"file"`

	// Size is the number of bytes written.
	Size int `json:"size" yaml:"size"`

	// SHA256 is the hex digest of the written bytes.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// Width, Height and Format come from probing the image header. They are
	// zero/empty when the format is not decodable (e.g. SVG).
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}
