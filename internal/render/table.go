/*
 *  MIT License
 *
 *  Copyright (c) 2025 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

// Package render implements the archive-rendering and diff routines the
// HTTP read surface delegates to: a fixed-width tar table and
// a unified patch between two such tables.
package render

import (
	"fmt"
	"strings"

	"github.com/nabbar/rpm-archivist/internal/ingest"
)

// digestColumnWidth is "sha256:" plus 64 hex chars (71), left-justified
// into a 73-wide field so every line's path starts at the same column
// whether or not the entry carries a digest.
const digestColumnWidth = 73

// RenderArchive renders files as the fixed-width table: one
// line per entry, digest column first (blank for directories and link
// entries), then the path, then a link suffix for symlink/hardlink
// entries. Byte-stable: the exact column widths are asserted by
// table_test.go against the known-good output the read surface has always
// produced.
func RenderArchive(files []ingest.TarEntry) string {
	var b strings.Builder
	for _, f := range files {
		digestCol := ""
		if f.Digest != "" {
			digestCol = "sha256:" + f.Digest
		}
		b.WriteString(fmt.Sprintf("%-*s%s", digestColumnWidth, digestCol, f.Path))

		if f.LinksTo != nil {
			switch f.LinksTo.Kind {
			case ingest.LinkSymbolic:
				b.WriteString(" -> ")
				b.WriteString(f.LinksTo.Target)
			case ingest.LinkHard:
				b.WriteString(" link to ")
				b.WriteString(f.LinksTo.Target)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
