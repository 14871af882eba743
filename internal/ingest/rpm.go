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
	"context"
	"io"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/nabbar/rpm-archivist/internal/bridge"
	"github.com/nabbar/rpm-archivist/internal/digest"
	"github.com/nabbar/rpm-archivist/internal/tarstream"
)

// DenyListPrefix marks packages whose inner archive contents must be
// fingerprinted but never persisted. Chromium tarballs are enormous and
// contribute nothing the read surface needs to browse file-by-file.
const DenyListPrefix = "chromium-"

// suffixRule is one row of the ordered filename-suffix classification
// table. Rules are tried in table order and the first match wins; the
// multi-part suffixes come before the bare ".tar" so it cannot shadow them.
type suffixRule struct {
	suffix      string
	compression Compression
}

var suffixTable = []suffixRule{
	{".tar.gz", CompressionGzip},
	{".tgz", CompressionGzip},
	{".crate", CompressionGzip},
	{".tar.xz", CompressionXZ},
	{".tar.bz2", CompressionBzip2},
	{".tar", CompressionNone},
}

// classify returns the compression to recurse with and true if filename
// names a tar archive; false means "hash only". The table is ordered so multi-part suffixes (.tar.gz, .tar.xz,
// .tar.bz2) are tried before the bare ".tar" fallback can shadow them.
func classify(filename string) (Compression, bool) {
	for _, rule := range suffixTable {
		if strings.HasSuffix(filename, rule.suffix) {
			return rule.compression, true
		}
	}
	return CompressionNone, false
}

var pendingTasks atomic.Int64

// PendingTasks reports the number of ingest operations currently running,
// for the read surface's /stats page.
func PendingTasks() int64 {
	return pendingTasks.Load()
}

// IngestRPM is the RPM ingest routine: it normalizes the
// RPM payload into a tar stream via the decompression bridge (bsdtar),
// classifies each regular-file entry by filename suffix, recurses into
// archives and hashes everything else, and records one Ref per entry.
func IngestRPM(ctx context.Context, db Recorder, reader io.Reader, vendor, pkg, version string) error {
	pendingTasks.Add(1)
	defer pendingTasks.Add(-1)

	return bridge.Run(ctx, bridge.DefaultExtractor, reader, func(stdout io.Reader) error {
		return ingestTarEntries(ctx, db, stdout, vendor, pkg, version)
	})
}

// ingestTarEntries walks an already-normalized (post-bsdtar) tar stream:
// the body of IngestRPM, split out so it can be exercised directly in
// tests without spawning a real bsdtar process.
func ingestTarEntries(ctx context.Context, db Recorder, tarStream io.Reader, vendor, pkg, version string) error {
	log := logrus.WithFields(logrus.Fields{"vendor": vendor, "package": pkg, "version": version})
	tr := tarstream.NewReader(tarStream)

	for {
		entry, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if entry.Type != tarstream.TypeRegular {
			continue
		}

		filename := baseName(entry.Path)
		chksum, err := ingestEntry(ctx, db, entry.Body, filename)
		if err != nil {
			return err
		}

		ref := Ref{Chksum: chksum, Vendor: vendor, Package: pkg, Version: version, Filename: filename}
		if err = db.InsertRef(ctx, ref); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"filename": filename, "chksum": chksum}).Info("ingested rpm entry")
	}
}

// ingestEntry hashes or recurses into one RPM payload entry and returns
// the chksum its Ref should point at.
func ingestEntry(ctx context.Context, db Recorder, body io.Reader, filename string) (string, error) {
	compression, isArchive := classify(filename)
	if !isArchive {
		d, err := digest.New(body).Drain()
		if err != nil {
			return "", err
		}
		return d.SHA256, nil
	}

	recorder := db
	if strings.HasPrefix(filename, DenyListPrefix) {
		recorder = nil
	}

	summary, err := StreamData(ctx, recorder, body, compression)
	if err != nil {
		return "", err
	}
	return summary.OuterSHA256, nil
}

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
