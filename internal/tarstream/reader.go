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

package tarstream

import (
	"archive/tar"
	"io"

	"github.com/nabbar/rpm-archivist/internal/errkind"
)

// Reader yields entries from a tar byte stream in archive order. It is not
// restartable and not safe for concurrent use: the caller must fully drain
// (or explicitly skip, via the next Next call) one entry's Body before
// asking for the next.
type Reader struct {
	tr *tar.Reader
}

// NewReader wraps an already-decompressed tar byte stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{tr: tar.NewReader(r)}
}

// Next advances to the next entry, or returns io.EOF when the stream is
// exhausted. Any unread bytes of the previous entry's body are discarded
// automatically, matching tar's own Reader semantics.
func (r *Reader) Next() (*Entry, error) {
	h, err := r.tr.Next()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errkind.Wrap(errkind.InputMalformed, err)
	}

	e := &Entry{
		Path: h.Name,
		Type: classify(h),
		Size: h.Size,
		Body: r.tr,
	}
	if e.Type == TypeSymlink || e.Type == TypeHardlink {
		e.LinkTarget = h.Linkname
	}
	return e, nil
}
