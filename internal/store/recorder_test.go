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

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nabbar/rpm-archivist/internal/ingest"
	"github.com/nabbar/rpm-archivist/internal/store"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err = db.AutoMigrate(store.Models...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestUpsertArtifactSetsFirstSeenOnceAndRefreshesLastImported(t *testing.T) {
	db := openTestDB(t)
	rec := store.NewRecorder(db)
	ctx := context.Background()

	files := []ingest.TarEntry{{Path: "a", Digest: "deadbeef"}}
	if err := rec.UpsertArtifact(ctx, "chk1", files); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	var first store.Artifact
	if err := db.First(&first, "chksum = ?", "chk1").Error; err != nil {
		t.Fatalf("load: %v", err)
	}

	updated := []ingest.TarEntry{{Path: "a", Digest: "deadbeef"}, {Path: "b", Digest: "cafef00d"}}
	if err := rec.UpsertArtifact(ctx, "chk1", updated); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var second store.Artifact
	if err := db.First(&second, "chksum = ?", "chk1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	if !second.FirstSeen.Equal(first.FirstSeen) {
		t.Fatalf("first_seen changed on re-ingest: %v -> %v", first.FirstSeen, second.FirstSeen)
	}
	if len(second.Files) != 2 {
		t.Fatalf("files not overwritten on re-ingest: %+v", second.Files)
	}
}

func TestInsertRefIsIdempotentOnNaturalKey(t *testing.T) {
	db := openTestDB(t)
	rec := store.NewRecorder(db)
	ctx := context.Background()

	ref := ingest.Ref{Chksum: "chk1", Vendor: "v", Package: "p", Version: "1.0", Filename: "x.tar.gz"}
	if err := rec.InsertRef(ctx, ref); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := rec.InsertRef(ctx, ref); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	var count int64
	if err := db.Model(&store.Ref{}).Where("vendor = ? AND package = ? AND version = ? AND filename = ?",
		"v", "p", "1.0", "x.tar.gz").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one ref row, got %d", count)
	}
}

func TestUpsertAliasSingleHop(t *testing.T) {
	db := openTestDB(t)
	rec := store.NewRecorder(db)
	resolver := store.NewResolver(db)
	ctx := context.Background()

	if err := rec.UpsertArtifact(ctx, "inner", []ingest.TarEntry{{Path: "a", Digest: "d"}}); err != nil {
		t.Fatalf("upsert artifact: %v", err)
	}
	if err := rec.UpsertAlias(ctx, "outer", "inner"); err != nil {
		t.Fatalf("upsert alias: %v", err)
	}

	got, err := resolver.Resolve(ctx, "outer")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Chksum != "inner" {
		t.Fatalf("expected alias to resolve to inner artifact, got %s", got.Chksum)
	}
}
