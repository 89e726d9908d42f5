// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook loads and writes notebook JSON documents without
// disturbing fields it does not touch. Object key order and the textual form
// of numbers survive a parse/marshal cycle.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrInvalidJSON is returned by Parse when the input is not a JSON object.
var ErrInvalidJSON = errors.New("invalid notebook JSON")

const (
	cellsKey       = "cells"
	sourceKey      = "source"
	attachmentsKey = "attachments"
	indent         = "  "
)

// Document is a parsed notebook. Only the cells array is interpreted; all
// other fields are carried through unchanged.
type Document struct {
	root *Object
}

// Parse decodes data into a Document. Input that is not valid JSON, carries
// trailing data, or whose top level is not an object yields ErrInvalidJSON.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrInvalidJSON)
	}

	root, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidJSON)
	}
	return &Document{root: root}, nil
}

// Root returns the top-level object.
func (d *Document) Root() *Object {
	return d.root
}

// Cells returns the cells array. A missing or non-array cells field yields nil.
func (d *Document) Cells() []any {
	v, ok := d.root.Get(cellsKey)
	if !ok {
		return nil
	}
	cells, _ := v.([]any)
	return cells
}

// SetCells replaces the cells array.
func (d *Document) SetCells(cells []any) {
	d.root.Set(cellsKey, cells)
}

// Marshal encodes the document with two-space indentation. Non-ASCII text is
// written as UTF-8 and HTML characters are not escaped. No trailing newline
// is written.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, d.root, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

func encodeValue(buf *bytes.Buffer, v any, depth int) error {
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, k := range t.keys {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(strings.Repeat(indent, depth+1))
			if err := encodeString(buf, k); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := encodeValue(buf, t.values[k], depth+1); err != nil {
				return err
			}
		}
		buf.WriteString("\n")
		buf.WriteString(strings.Repeat(indent, depth))
		buf.WriteString("}")

	case []any:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range t {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(strings.Repeat(indent, depth+1))
			if err := encodeValue(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString("\n")
		buf.WriteString(strings.Repeat(indent, depth))
		buf.WriteString("]")

	case string:
		return encodeString(buf, t)

	case json.Number:
		buf.WriteString(t.String())

	case nil:
		buf.WriteString("null")

	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}

	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding %T: %w", t, err)
		}
		buf.Write(data)
	}
	return nil
}

// encodeString writes s as a JSON string. U+2028 and U+2029 are written as
// raw UTF-8 rather than the escapes encoding/json emits.
func encodeString(buf *bytes.Buffer, s string) error {
	buf.WriteByte('"')
	for {
		i := strings.IndexAny(s, "\u2028\u2029")
		seg := s
		if i >= 0 {
			seg = s[:i]
		}

		var b bytes.Buffer
		enc := json.NewEncoder(&b)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(seg); err != nil {
			return err
		}
		quoted := bytes.TrimSuffix(b.Bytes(), []byte("\n"))
		buf.Write(quoted[1 : len(quoted)-1])

		if i < 0 {
			break
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		buf.WriteString(s[i : i+size])
		s = s[i+size:]
	}
	buf.WriteByte('"')
	return nil
}
