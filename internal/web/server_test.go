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

package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nabbar/rpm-archivist/internal/ingest"
	"github.com/nabbar/rpm-archivist/internal/store"
	"github.com/nabbar/rpm-archivist/internal/web"
)

func newTestEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err = db.AutoMigrate(store.Models...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return web.NewEngine(db), db
}

func TestUnknownRouteReturns404WithExactBody(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.String() != "404 - file not found\n" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestUnknownArtifactReturns404(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/artifact/does-not-exist", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestArtifactJSONVariant(t *testing.T) {
	engine, db := newTestEngine(t)
	rec := store.NewRecorder(db)
	ctx := context.Background()

	if err := rec.UpsertArtifact(ctx, "chk1", []ingest.TarEntry{{Path: "a", Digest: "d"}}); err != nil {
		t.Fatalf("seed artifact: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/artifact/chk1.json", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content-type: %s", ct)
	}
}

func TestDefaultRouteCacheControlHeader(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	want := "max-age=600, stale-while-revalidate=300, stale-if-error=300"
	if got := rec.Header().Get("Cache-Control"); got != want {
		t.Fatalf("expected default cache-control %q, got %q", want, got)
	}
}

func TestSearchRouteUsesShortCacheControl(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/search?q=foo", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	want := "max-age=10, stale-while-revalidate=20, stale-if-error=60"
	if got := rec.Header().Get("Cache-Control"); got != want {
		t.Fatalf("expected short cache-control %q, got %q", want, got)
	}
}

func TestStatsRouteSucceeds(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDiffOfArtifactAgainstItselfRendersEmptyPatch(t *testing.T) {
	engine, db := newTestEngine(t)
	rec := store.NewRecorder(db)
	ctx := context.Background()

	if err := rec.UpsertArtifact(ctx, "chk1", []ingest.TarEntry{{Path: "a", Digest: "d"}}); err != nil {
		t.Fatalf("seed artifact: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/diff/chk1/chk1", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "<pre></pre>") {
		t.Fatalf("expected an empty patch body, got %s", w.Body.String())
	}
}
