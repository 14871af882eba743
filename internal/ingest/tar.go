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

package ingest

import (
	"compress/bzip2"
	"compress/gzip"
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"

	"github.com/nabbar/rpm-archivist/internal/digest"
	"github.com/nabbar/rpm-archivist/internal/errkind"
	"github.com/nabbar/rpm-archivist/internal/tarstream"
)

// Compression selects how the byte stream handed to StreamData is framed.
// It is resolved from a filename suffix by the RPM ingest routine and used
// here to pick the in-process decompressor that sits in front of the tar
// entry reader.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionXZ
	CompressionBzip2
)

func (c Compression) decompress(r io.Reader) (io.Reader, error) {
	switch c {
	case CompressionGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errkind.Wrap(errkind.InputMalformed, err)
		}
		return gr, nil
	case CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, errkind.Wrap(errkind.InputMalformed, err)
		}
		return xr, nil
	case CompressionBzip2:
		return bzip2.NewReader(r), nil
	default:
		return r, nil
	}
}

// StreamData is the tar ingest routine. db is optional: a
// nil Recorder hashes without persisting, which the RPM ingest routine
// uses for deny-listed packages (chromium-*) whose contents must not be
// stored even though their digest still needs computing.
//
// Per Artifact invariant, the outer digest (Artifact.chksum) is
// the sha256 of the decompressed tar byte stream, not of the compressed
// container reader hands in. reader is decompressed first (in-process,
// per compression), and the outer digest sink wraps that decompressed
// stream. Entries are processed strictly in archive order and that order
// is preserved in Summary.Files; any entry error aborts the whole archive.
func StreamData(ctx context.Context, db Recorder, reader io.Reader, compression Compression) (*Summary, error) {
	decompressed, err := compression.decompress(reader)
	if err != nil {
		return nil, err
	}

	outer := digest.New(decompressed)
	tr := tarstream.NewReader(outer)
	files := make([]TarEntry, 0)

	for {
		entry, nerr := tr.Next()
		if nerr == io.EOF {
			break
		}
		if nerr != nil {
			return nil, nerr
		}
		if entry.Type == tarstream.TypeOther {
			continue
		}

		te, terr := entryToTarEntry(entry)
		if terr != nil {
			return nil, terr
		}
		files = append(files, te)
	}

	// The loop above has pulled the tar stream up to its end-of-archive
	// marker through outer; Drain reads whatever follows (record padding,
	// if any) so the outer digest covers the whole decompressed stream.
	outerDigests, err := outer.Drain()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		OuterSHA256: outerDigests.SHA256,
		OuterSize:   outerDigests.Size,
		Files:       files,
	}

	if db != nil {
		if err = db.UpsertArtifact(ctx, summary.OuterSHA256, summary.Files); err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"chksum":  summary.OuterSHA256,
		"entries": len(summary.Files),
		"persist": db != nil,
	}).Debug("tar stream ingested")

	return summary, nil
}

func entryToTarEntry(entry *tarstream.Entry) (TarEntry, error) {
	te := TarEntry{Path: entry.Path}

	switch entry.Type {
	case tarstream.TypeRegular:
		d, err := digest.New(entry.Body).Drain()
		if err != nil {
			return TarEntry{}, err
		}
		te.Digest = d.SHA256
	case tarstream.TypeDirectory:
		// digest and links_to both absent
	case tarstream.TypeSymlink:
		te.LinksTo = &LinkTarget{Kind: LinkSymbolic, Target: entry.LinkTarget}
	case tarstream.TypeHardlink:
		te.LinksTo = &LinkTarget{Kind: LinkHard, Target: entry.LinkTarget}
	}

	return te, nil
}
