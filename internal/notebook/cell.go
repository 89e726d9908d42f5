// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"strings"
)

// Attachment is one named entry of a cell's attachments map.
type Attachment struct {
	Name    string
	Entries []MIMEEntry
}

// MIMEEntry is one MIME type of an attachment with its base64 payload.
type MIMEEntry struct {
	Type string
	Data string
}

// Attachments returns the attachments of cell in document order. The second
// result reports whether the cell has an attachments field at all, even an
// empty or malformed one.
func Attachments(cell *Object) ([]Attachment, bool) {
	v, ok := cell.Get(attachmentsKey)
	if !ok {
		return nil, false
	}
	m, isObj := v.(*Object)
	if !isObj {
		return nil, true
	}

	var out []Attachment
	for _, name := range m.keys {
		bundle, ok := m.values[name].(*Object)
		if !ok {
			continue
		}
		att := Attachment{Name: name}
		for _, mime := range bundle.keys {
			data, ok := payload(bundle.values[mime])
			if !ok {
				continue
			}
			att.Entries = append(att.Entries, MIMEEntry{Type: mime, Data: data})
		}
		out = append(out, att)
	}
	return out, true
}

// WithoutAttachments returns a copy of cell with the attachments field removed.
func WithoutAttachments(cell *Object) *Object {
	return cell.Without(attachmentsKey)
}

// ReplaceInSource returns a copy of cell whose source has every occurrence of
// old replaced by repl. Both the list-of-lines and single-string source forms
// are handled; a cell without source is returned unchanged.
func ReplaceInSource(cell *Object, old, repl string) *Object {
	v, ok := cell.Get(sourceKey)
	if !ok {
		return cell
	}

	switch src := v.(type) {
	case string:
		return cell.With(sourceKey, strings.ReplaceAll(src, old, repl))
	case []any:
		lines := make([]any, len(src))
		for i, line := range src {
			if s, ok := line.(string); ok {
				lines[i] = strings.ReplaceAll(s, old, repl)
			} else {
				lines[i] = line
			}
		}
		return cell.With(sourceKey, lines)
	}
	return cell
}

// payload accepts a string or a list of strings (multi-line form).
func payload(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []any:
		var b strings.Builder
		for _, part := range t {
			s, ok := part.(string)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	}
	return "", false
}
