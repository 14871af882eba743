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

package store_test

import (
	"context"
	"testing"

	"github.com/nabbar/rpm-archivist/internal/errkind"
	"github.com/nabbar/rpm-archivist/internal/ingest"
	"github.com/nabbar/rpm-archivist/internal/store"
)

func TestResolveUnknownChksumReturnsNotFound(t *testing.T) {
	db := openTestDB(t)
	resolver := store.NewResolver(db)

	_, err := resolver.Resolve(context.Background(), "does-not-exist")
	if !errkind.IsKind(err, errkind.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSearchStripsLikeMetacharactersAndAppendsTrailingPercent(t *testing.T) {
	db := openTestDB(t)
	rec := store.NewRecorder(db)
	resolver := store.NewResolver(db)
	ctx := context.Background()

	refs := []ingest.Ref{
		{Chksum: "c1", Vendor: "v", Package: "foobar", Version: "1", Filename: "foobar.tar.gz"},
		{Chksum: "c2", Vendor: "v", Package: "foobarbaz", Version: "1", Filename: "foobarbaz.tar.gz"},
		{Chksum: "c3", Vendor: "v", Package: "other", Version: "1", Filename: "other.tar.gz"},
	}
	for _, r := range refs {
		if err := rec.InsertRef(ctx, r); err != nil {
			t.Fatalf("insert ref: %v", err)
		}
	}

	// q = "foo%bar_" strips to "foobar" then gets a trailing % appended,
	// matching both foobar and foobarbaz but not other.
	got, err := resolver.Search(ctx, "foo%bar_", 150)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(got), got)
	}
}

func TestSearchRequiresPositiveLimit(t *testing.T) {
	db := openTestDB(t)
	resolver := store.NewResolver(db)

	if _, err := resolver.Search(context.Background(), "foo", 0); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}

func TestAllRefsForReturnsEveryObservation(t *testing.T) {
	db := openTestDB(t)
	rec := store.NewRecorder(db)
	resolver := store.NewResolver(db)
	ctx := context.Background()

	_ = rec.InsertRef(ctx, ingest.Ref{Chksum: "shared", Vendor: "v1", Package: "p1", Version: "1", Filename: "a.tar.gz"})
	_ = rec.InsertRef(ctx, ingest.Ref{Chksum: "shared", Vendor: "v2", Package: "p2", Version: "2", Filename: "b.tar.gz"})
	_ = rec.InsertRef(ctx, ingest.Ref{Chksum: "other", Vendor: "v3", Package: "p3", Version: "3", Filename: "c.tar.gz"})

	refs, err := resolver.AllRefsFor(ctx, "shared")
	if err != nil {
		t.Fatalf("all refs for: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs for shared chksum, got %d", len(refs))
	}
}
