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

package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/nabbar/rpm-archivist/internal/ingest"
)

// JSONFiles adapts []ingest.TarEntry to GORM's column interfaces so the
// ordered entry list round-trips as a single jsonb column (postgres) or
// text column (sqlite) without a dedicated child table. No library in the
// dependency pack exposes a ready-made JSON column type for the drivers in
// use here, so this is the one deliberately stdlib (encoding/json +
// database/sql/driver) piece of the store package; see DESIGN.md.
type JSONFiles []ingest.TarEntry

func (f JSONFiles) Value() (driver.Value, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]ingest.TarEntry(f))
}

func (f *JSONFiles) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("store: JSONFiles.Scan: unsupported column type")
	}

	var out []ingest.TarEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*f = out
	return nil
}

// Artifact is the GORM model for the Artifact entity: the
// content-addressed record of one decompressed tar stream.
type Artifact struct {
	Chksum       string    `gorm:"column:chksum;primaryKey"`
	FirstSeen    time.Time `gorm:"column:first_seen;autoCreateTime"`
	LastImported time.Time `gorm:"column:last_imported"`
	Files        JSONFiles `gorm:"column:files;type:jsonb"`
}

func (Artifact) TableName() string { return "artifacts" }

// Ref is the GORM model for the Ref entity: a (vendor, package,
// version, filename) observation pointing at an Artifact's digest.
// Uniqueness is the full tuple, enforced by the composite index below so
// re-ingesting the same RPM is a no-op rather than a duplicate row.
type Ref struct {
	ID       uint   `gorm:"column:id;primaryKey"`
	Chksum   string `gorm:"column:chksum;index:idx_refs_chksum"`
	Vendor   string `gorm:"column:vendor;uniqueIndex:idx_refs_tuple"`
	Package  string `gorm:"column:package;uniqueIndex:idx_refs_tuple"`
	Version  string `gorm:"column:version;uniqueIndex:idx_refs_tuple"`
	Filename string `gorm:"column:filename;uniqueIndex:idx_refs_tuple"`
}

func (Ref) TableName() string { return "refs" }

// Alias is the one-hop chksum -> alias_to redirection.
type Alias struct {
	Chksum  string `gorm:"column:chksum;primaryKey"`
	AliasTo string `gorm:"column:alias_to"`
}

func (Alias) TableName() string { return "aliases" }

// SBOM is an opaque-to-the-core blob referenced by digest; the read
// surface parses its Content lazily. Kind distinguishes the SBOM format
// (e.g. "spdx", "cyclonedx") without the core needing to understand it.
type SBOM struct {
	Chksum  string `gorm:"column:chksum;primaryKey"`
	Kind    string `gorm:"column:kind"`
	Content []byte `gorm:"column:content"`
}

func (SBOM) TableName() string { return "sboms" }

// SBOMRef cross-references an SBOM blob against the archive (or nested
// archive) chksum it documents, backing the resolver's
// SBOMRefsForArchive/SBOMRefsForSBOM lookups.
type SBOMRef struct {
	ID            uint   `gorm:"column:id;primaryKey"`
	SBOMChksum    string `gorm:"column:sbom_chksum;uniqueIndex:idx_sbom_ref"`
	ArchiveChksum string `gorm:"column:archive_chksum;uniqueIndex:idx_sbom_ref"`
}

func (SBOMRef) TableName() string { return "sbom_refs" }

// Models lists every GORM model for AutoMigrate.
var Models = []interface{}{
	&Artifact{},
	&Ref{},
	&Alias{},
	&SBOM{},
	&SBOMRef{},
}
