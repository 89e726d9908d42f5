// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"truncated object", `{"cells": [`},
		{"top-level array", `[1, 2, 3]`},
		{"top-level string", `"notebook"`},
		{"trailing data", `{"cells": []} {}`},
		{"missing colon", `{"cells" []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidJSON), "error %v should wrap ErrInvalidJSON", err)
		})
	}
}

func TestMarshal_PreservesKeyOrderAndNumbers(t *testing.T) {
	input := `{"nbformat": 4, "metadata": {"z": 1.50, "a": 1e3}, "cells": [], "nbformat_minor": 5}`

	doc, err := Parse([]byte(input))
	require.NoError(t, err)

	out, err := doc.Marshal()
	require.NoError(t, err)

	want := `{
  "nbformat": 4,
  "metadata": {
    "z": 1.50,
    "a": 1e3
  },
  "cells": [],
  "nbformat_minor": 5
}`
	assert.Equal(t, want, string(out))
}

func TestMarshal_NonASCIIAndHTML(t *testing.T) {
	input := `{"cells": [{"source": ["Größe <b>&</b> \"q\"\n", "日本"]}], "empty": {}, "flag": true, "none": null}`

	doc, err := Parse([]byte(input))
	require.NoError(t, err)

	out, err := doc.Marshal()
	require.NoError(t, err)

	want := `{
  "cells": [
    {
      "source": [
        "Größe <b>&</b> \"q\"\n",
        "日本"
      ]
    }
  ],
  "empty": {},
  "flag": true,
  "none": null
}`
	assert.Equal(t, want, string(out))
}

func TestMarshal_LineSeparatorsWrittenRaw(t *testing.T) {
	input := `{"cells": [{"source": ["x\u2028y\u2029z", "\\u2028 stays escaped"]}]}`

	doc, err := Parse([]byte(input))
	require.NoError(t, err)

	out, err := doc.Marshal()
	require.NoError(t, err)

	assert.Contains(t, string(out), "\"x\u2028y\u2029z\"")
	assert.Contains(t, string(out), `"\\u2028 stays escaped"`)
	assert.NotContains(t, string(out), `x\u2028y`)
}

func TestMarshal_RoundTripIsStable(t *testing.T) {
	input := `{"cells": [{"cell_type": "markdown", "metadata": {}, "source": ["# Title"]}], "metadata": {"kernelspec": {"name": "python3"}}}`

	doc, err := Parse([]byte(input))
	require.NoError(t, err)
	first, err := doc.Marshal()
	require.NoError(t, err)

	again, err := Parse(first)
	require.NoError(t, err)
	second, err := again.Marshal()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestDocument_Cells(t *testing.T) {
	doc, err := Parse([]byte(`{"metadata": {}}`))
	require.NoError(t, err)
	assert.Nil(t, doc.Cells(), "missing cells should yield nil")

	doc, err = Parse([]byte(`{"cells": "oops"}`))
	require.NoError(t, err)
	assert.Nil(t, doc.Cells(), "non-array cells should yield nil")

	doc, err = Parse([]byte(`{"cells": [{"source": []}, {"source": []}]}`))
	require.NoError(t, err)
	assert.Len(t, doc.Cells(), 2)

	doc.SetCells([]any{})
	out, err := doc.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"cells\": []\n}", string(out))
}

func TestObject_WithAndWithout(t *testing.T) {
	o := NewObject()
	o.Set("a", "1")
	o.Set("b", "2")
	o.Set("c", "3")

	without := o.Without("b")
	assert.Equal(t, []string{"a", "c"}, without.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, o.Keys(), "original must not change")

	with := o.With("b", "changed")
	v, _ := with.Get("b")
	assert.Equal(t, "changed", v)
	assert.Equal(t, []string{"a", "b", "c"}, with.Keys(), "existing key keeps position")
	orig, _ := o.Get("b")
	assert.Equal(t, "2", orig)

	appended := o.With("d", "4")
	assert.Equal(t, []string{"a", "b", "c", "d"}, appended.Keys())
	assert.False(t, o.Has("d"))
}
