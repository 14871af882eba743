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

// Package tarstream reads a tar byte stream as a lazy, ordered, single-pass
// sequence of entries, the way archive/tar.Reader already works, but
// restricted to the entry types the ingest pipeline cares about and with
// the skip bookkeeping (draining an unread body before advancing) made
// explicit rather than left to the caller.
package tarstream

import (
	"archive/tar"
	"io"
)

// EntryType mirrors the subset of tar entry types the pipeline honors.
type EntryType uint8

const (
	TypeRegular EntryType = iota
	TypeDirectory
	TypeSymlink
	TypeHardlink
	TypeOther // skipped entries: device nodes, fifos, PAX metadata, etc.
)

func classify(h *tar.Header) EntryType {
	switch h.Typeflag {
	case tar.TypeReg, tar.TypeRegA:
		return TypeRegular
	case tar.TypeDir:
		return TypeDirectory
	case tar.TypeSymlink:
		return TypeSymlink
	case tar.TypeLink:
		return TypeHardlink
	default:
		return TypeOther
	}
}

// Entry is one (header, body) pair. Body must be read to completion (or
// explicitly skipped via Reader.Next) before the next entry becomes
// available; it is only ever valid until the next call to Next.
type Entry struct {
	Path       string
	Type       EntryType
	Size       int64
	LinkTarget string // set for TypeSymlink/TypeHardlink
	Body       io.Reader
}
