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
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type memRecorder struct {
	artifacts map[string][]TarEntry
	refs      []Ref
}

func newMemRecorder() *memRecorder {
	return &memRecorder{artifacts: make(map[string][]TarEntry)}
}

func (m *memRecorder) UpsertArtifact(_ context.Context, chksum string, files []TarEntry) error {
	m.artifacts[chksum] = files
	return nil
}

func (m *memRecorder) InsertRef(_ context.Context, ref Ref) error {
	m.refs = append(m.refs, ref)
	return nil
}

func gzipTarOf(entries map[string][]byte, order []string) []byte {
	var raw bytes.Buffer
	tw := tar.NewWriter(&raw)
	for _, name := range order {
		body := entries[name]
		_ = tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Size: int64(len(body)), Mode: 0644})
		_, _ = tw.Write(body)
	}
	_ = tw.Close()

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, _ = gw.Write(raw.Bytes())
	_ = gw.Close()
	return gz.Bytes()
}

func rpmPayloadTar(members map[string][]byte) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, body := range members {
		_ = tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Size: int64(len(body)), Mode: 0644})
		_, _ = tw.Write(body)
	}
	_ = tw.Close()
	return buf.Bytes()
}

var _ = Describe("RPM ingest routine", func() {
	var rec *memRecorder

	BeforeEach(func() {
		rec = newMemRecorder()
	})

	It("produces one Artifact and one Ref for an embedded x.tar.gz", func() {
		inner := gzipTarOf(map[string][]byte{
			"a": bytes.Repeat([]byte{0x00}, 10),
			"b": bytes.Repeat([]byte{0xff}, 10),
		}, []string{"a", "b"})

		payload := rpmPayloadTar(map[string][]byte{"x.tar.gz": inner})

		err := ingestTarEntries(context.Background(), rec, bytes.NewReader(payload), "vendor", "pkg", "1.0")
		Expect(err).NotTo(HaveOccurred())

		Expect(rec.refs).To(HaveLen(1))
		Expect(rec.refs[0].Filename).To(Equal("x.tar.gz"))
		Expect(rec.artifacts).To(HaveKey(rec.refs[0].Chksum))

		files := rec.artifacts[rec.refs[0].Chksum]
		Expect(files).To(HaveLen(2))
		Expect(files[0].Path).To(Equal("a"))
		Expect(files[1].Path).To(Equal("b"))
	})

	It("records a Ref but no Artifact row for a chromium-prefixed archive", func() {
		inner := gzipTarOf(map[string][]byte{"f": []byte("data")}, []string{"f"})
		payload := rpmPayloadTar(map[string][]byte{"chromium-foo.tar.gz": inner})

		err := ingestTarEntries(context.Background(), rec, bytes.NewReader(payload), "vendor", "pkg", "1.0")
		Expect(err).NotTo(HaveOccurred())

		Expect(rec.refs).To(HaveLen(1))
		Expect(rec.artifacts).To(BeEmpty(), "deny-listed archive contents must not be persisted")
	})

	It("hashes non-archive entries without creating an Artifact", func() {
		payload := rpmPayloadTar(map[string][]byte{"README.md": []byte("hello")})

		err := ingestTarEntries(context.Background(), rec, bytes.NewReader(payload), "vendor", "pkg", "1.0")
		Expect(err).NotTo(HaveOccurred())

		Expect(rec.refs).To(HaveLen(1))
		Expect(rec.refs[0].Filename).To(Equal("README.md"))
		Expect(rec.artifacts).To(BeEmpty())
	})

	It("is idempotent at the Ref level across re-ingestion of the same bytes", func() {
		payload := rpmPayloadTar(map[string][]byte{"README.md": []byte("hello")})

		Expect(ingestTarEntries(context.Background(), rec, bytes.NewReader(payload), "v", "p", "1")).To(Succeed())
		firstChksum := rec.refs[0].Chksum

		// a second recorder simulates the store's own upsert-on-natural-key
		// idempotence; here we only assert the ingest routine computes the
		// identical chksum byte-for-byte, which is what the unique
		// constraint in internal/store relies on.
		rec2 := newMemRecorder()
		Expect(ingestTarEntries(context.Background(), rec2, bytes.NewReader(payload), "v", "p", "1")).To(Succeed())

		Expect(rec2.refs[0].Chksum).To(Equal(firstChksum))
	})
})

var _ = Describe("suffix classification", func() {
	DescribeTable("picks the longest matching suffix first",
		func(filename string, wantArchive bool, wantCompression Compression) {
			comp, isArchive := classify(filename)
			Expect(isArchive).To(Equal(wantArchive))
			if wantArchive {
				Expect(comp).To(Equal(wantCompression))
			}
		},
		Entry("tar.gz", "foo.tar.gz", true, CompressionGzip),
		Entry("tgz", "foo.tgz", true, CompressionGzip),
		Entry("crate", "foo.crate", true, CompressionGzip),
		Entry("tar.xz", "foo.tar.xz", true, CompressionXZ),
		Entry("tar.bz2", "foo.tar.bz2", true, CompressionBzip2),
		Entry("bare tar, not shadowed by .tar.gz rule", "foo.tar", true, CompressionNone),
		Entry("unrecognized suffix hashes only", "foo.patch", false, CompressionNone),
	)
})
