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

// Package ingest implements the recursive streaming ingest pipeline: the
// tar ingest routine (StreamData) and the RPM ingest routine (IngestRPM),
// plus the domain types they produce.
package ingest

import "context"

// LinkKind distinguishes the two tagged-union variants a TarEntry's
// LinksTo can carry.
type LinkKind uint8

const (
	LinkNone LinkKind = iota
	LinkSymbolic
	LinkHard
)

// LinkTarget is the tagged union {Symbolic(target), Hard(target)} carried
// by a TarEntry's LinksTo field. The zero value (Kind == LinkNone) means
// "absent".
type LinkTarget struct {
	Kind   LinkKind `json:"kind,omitempty"`
	Target string   `json:"target,omitempty"`
}

// TarEntry is one archive member, serialized verbatim into Artifact.Files.
//
// Invariant: for a regular file, Digest is set and LinksTo is the zero
// value. For a directory, both are zero. For a link entry, LinksTo is set
// and Digest is empty.
type TarEntry struct {
	Path    string      `json:"path"`
	Digest  string      `json:"digest,omitempty"`
	LinksTo *LinkTarget `json:"links_to,omitempty"`
}

// Summary is returned by StreamData: the outer digest of the whole tar
// byte stream plus the ordered, per-entry metadata recorded along the way.
type Summary struct {
	OuterSHA256 string
	OuterSize   int64
	Files       []TarEntry
}

// Ref mirrors the persisted (chksum, vendor, package, version, filename)
// tuple, passed to Recorder.InsertRef without depending on
// the store package's GORM model.
type Ref struct {
	Chksum   string
	Vendor   string
	Package  string
	Version  string
	Filename string
}

// Recorder is the subset of the reference recorder the
// ingest routines need. Implemented by *store.Recorder; kept as a narrow
// interface here so this package never imports store (store imports
// ingest for the TarEntry type, not the other way around).
type Recorder interface {
	UpsertArtifact(ctx context.Context, chksum string, files []TarEntry) error
	InsertRef(ctx context.Context, ref Ref) error
}
