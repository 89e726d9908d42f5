// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCell(t *testing.T, js string) *Object {
	t.Helper()
	doc, err := Parse([]byte(`{"cells": [` + js + `]}`))
	require.NoError(t, err)
	cell, ok := doc.Cells()[0].(*Object)
	require.True(t, ok)
	return cell
}

func TestAttachments(t *testing.T) {
	cell := parseCell(t, `{
		"attachments": {
			"b.png": {"image/png": "AAAA", "text/plain": "alt"},
			"a.jpg": {"image/jpeg": ["QUJD", "REVG"]},
			"bad": "not a bundle"
		},
		"source": []
	}`)

	atts, ok := Attachments(cell)
	require.True(t, ok)
	require.Len(t, atts, 2)

	assert.Equal(t, "b.png", atts[0].Name, "document order is kept")
	assert.Equal(t, []MIMEEntry{
		{Type: "image/png", Data: "AAAA"},
		{Type: "text/plain", Data: "alt"},
	}, atts[0].Entries)

	assert.Equal(t, "a.jpg", atts[1].Name)
	assert.Equal(t, []MIMEEntry{{Type: "image/jpeg", Data: "QUJDREVG"}}, atts[1].Entries)
}

func TestAttachments_Absent(t *testing.T) {
	atts, ok := Attachments(parseCell(t, `{"source": []}`))
	assert.False(t, ok)
	assert.Nil(t, atts)

	atts, ok = Attachments(parseCell(t, `{"attachments": {}, "source": []}`))
	assert.True(t, ok, "an empty map still counts as present")
	assert.Empty(t, atts)
}

func TestWithoutAttachments(t *testing.T) {
	cell := parseCell(t, `{"cell_type": "markdown", "attachments": {}, "source": []}`)

	out := WithoutAttachments(cell)
	assert.Equal(t, []string{"cell_type", "source"}, out.Keys())
	assert.True(t, cell.Has("attachments"), "input cell is not mutated")
}

func TestReplaceInSource(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want any
	}{
		{
			name: "list of lines",
			cell: `{"source": ["![alt](<attachment:foo.png>)\n", "![x](<attachment:bar.png>)"]}`,
			want: []any{"![alt](../screenshots/foo.png)\n", "![x](<attachment:bar.png>)"},
		},
		{
			name: "single string",
			cell: `{"source": "a ![alt](<attachment:foo.png>) b"}`,
			want: "a ![alt](../screenshots/foo.png) b",
		},
		{
			name: "every occurrence in a line",
			cell: `{"source": ["(<attachment:foo.png>)(<attachment:foo.png>)"]}`,
			want: []any{"(../screenshots/foo.png)(../screenshots/foo.png)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := parseCell(t, tt.cell)
			out := ReplaceInSource(cell, "(<attachment:foo.png>)", "(../screenshots/foo.png)")
			got, ok := out.Get("source")
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceInSource_NoSource(t *testing.T) {
	cell := parseCell(t, `{"cell_type": "markdown"}`)
	out := ReplaceInSource(cell, "x", "y")
	assert.Same(t, cell, out)
}
