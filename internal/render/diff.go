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

package render

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/nabbar/rpm-archivist/internal/ingest"
)

// DiffOptions carries the two toggles.
type DiffOptions struct {
	// Sorted orders both tables by path ascending before rendering.
	Sorted bool
	// Trimmed strips the leading path component (everything up to and
	// including the first "/") from every entry before sorting. Implies
	// Sorted: a trimmed-but-unsorted table was never a real mode the read
	// surface exposed.
	Trimmed bool
}

// Diff computes a unified patch between the rendered tables of two
// artifacts' file lists. Diffing an artifact against itself
// always yields an empty patch body, since go-difflib emits nothing when
// the two sequences are identical.
func Diff(aName string, aFiles []ingest.TarEntry, bName string, bFiles []ingest.TarEntry, opts DiffOptions) (string, error) {
	aLines := tableLines(aFiles, opts)
	bLines := tableLines(bFiles, opts)

	ud := difflib.UnifiedDiff{
		A:        aLines,
		B:        bLines,
		FromFile: aName,
		ToFile:   bName,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

func tableLines(files []ingest.TarEntry, opts DiffOptions) []string {
	entries := make([]ingest.TarEntry, len(files))
	copy(entries, files)

	if opts.Trimmed {
		for i, e := range entries {
			entries[i].Path = trimLeadingComponent(e.Path)
		}
	}

	if opts.Sorted || opts.Trimmed {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	}

	rendered := RenderArchive(entries)
	return difflib.SplitLines(rendered)
}

func trimLeadingComponent(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
