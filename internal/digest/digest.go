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

// Package digest wraps a byte source with a multi-algorithm hash sink: sha256
// is mandatory (it is the system's identity for every blob it has ever
// observed), sha1/sha512/blake2b ride along for free since they hash the
// same stream.
package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/nabbar/rpm-archivist/internal/errkind"
)

// Digests is the per-algorithm hex-encoded result of draining a Sink.
type Digests struct {
	SHA256  string
	SHA1    string
	SHA512  string
	Blake2b string
	Size    int64
}

// Sink wraps an io.Reader and accumulates all mandatory/recommended digests
// as bytes flow through it. It never buffers more than one read's worth of
// data: memory use is O(1) regardless of source size.
type Sink struct {
	src io.Reader
	w   []hash.Hash
	sz  int64
}

// New wraps src with a fresh hash set.
func New(src io.Reader) *Sink {
	b2, _ := blake2b.New256(nil) // nil key never errors
	return &Sink{
		src: src,
		w:   []hash.Hash{sha256.New(), sha1.New(), sha512.New(), b2},
	}
}

// Read implements io.Reader, feeding every byte read from the source into
// all hash accumulators before returning it to the caller.
func (s *Sink) Read(p []byte) (int, error) {
	n, err := s.src.Read(p)
	if n > 0 {
		for _, h := range s.w {
			h.Write(p[:n])
		}
		s.sz += int64(n)
	}
	return n, err
}

// Drain consumes the source to EOF and returns the final digests. A
// non-EOF read error aborts the operation and no digest is returned: a
// partial digest is never exposed.
func (s *Sink) Drain() (Digests, error) {
	if _, err := io.Copy(io.Discard, s); err != nil {
		return Digests{}, errkind.Wrap(errkind.Io, err)
	}
	return s.digests(), nil
}

// Tee drains the source while forwarding every byte read to dst, returning
// the digests and the byte count written downstream. A write failure on
// dst aborts the whole operation just like a read failure would.
func Tee(src io.Reader, dst io.Writer) (Digests, int64, error) {
	s := New(src)
	n, err := io.Copy(dst, s)
	if err != nil {
		return Digests{}, n, errkind.Wrap(errkind.Io, err)
	}
	return s.digests(), n, nil
}

func (s *Sink) digests() Digests {
	return Digests{
		SHA256:  hex.EncodeToString(s.w[0].Sum(nil)),
		SHA1:    hex.EncodeToString(s.w[1].Sum(nil)),
		SHA512:  hex.EncodeToString(s.w[2].Sum(nil)),
		Blake2b: hex.EncodeToString(s.w[3].Sum(nil)),
		Size:    s.sz,
	}
}
