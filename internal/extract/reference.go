// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"path"
	"strings"
)

// SafeFilename returns the output file name for an attachment: spaces are
// replaced by underscores, nothing else changes.
func SafeFilename(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// AttachmentRef returns the markdown link target that embeds an attachment,
// e.g. "(<attachment:foo.png>)".
func AttachmentRef(name string) string {
	return "(<attachment:" + name + ">)"
}

// ImageRef returns the markdown link target pointing at an extracted file,
// e.g. "(../screenshots/foo.png)".
func ImageRef(prefix, file string) string {
	return "(" + path.Join(prefix, file) + ")"
}
