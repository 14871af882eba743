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
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nabbar/rpm-archivist/internal/errkind"
	"github.com/nabbar/rpm-archivist/internal/ingest"
)

// Recorder is the reference recorder: transactional, idempotent
// inserts/upserts against the natural keys of Ref, Artifact and Alias. It
// implements ingest.Recorder, so the ingest package can call it through
// that narrow interface without importing gorm itself.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// UpsertArtifact sets first_seen on create and always refreshes
// last_imported; files is overwritten wholesale on re-ingest, matching the
// reference recorder's contract.
func (r *Recorder) UpsertArtifact(ctx context.Context, chksum string, files []ingest.TarEntry) error {
	now := time.Now().UTC()
	row := Artifact{
		Chksum:       chksum,
		FirstSeen:    now,
		LastImported: now,
		Files:        JSONFiles(files),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chksum"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_imported", "files"}),
	}).Create(&row).Error
	if err != nil {
		return errkind.Wrap(errkind.Db, err)
	}
	return nil
}

// InsertRef is a no-op on re-ingestion of the same (vendor, package,
// version, filename) tuple: the composite unique index makes the conflict
// clause discard the duplicate instead of erroring, satisfying the
// idempotence requirement.
func (r *Recorder) InsertRef(ctx context.Context, ref ingest.Ref) error {
	row := Ref{
		Chksum:   ref.Chksum,
		Vendor:   ref.Vendor,
		Package:  ref.Package,
		Version:  ref.Version,
		Filename: ref.Filename,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vendor"}, {Name: "package"}, {Name: "version"}, {Name: "filename"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return errkind.Wrap(errkind.Db, err)
	}
	return nil
}

// UpsertAlias records a one-hop chksum -> alias_to redirection.
func (r *Recorder) UpsertAlias(ctx context.Context, chksum, aliasTo string) error {
	row := Alias{Chksum: chksum, AliasTo: aliasTo}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chksum"}},
		DoUpdates: clause.AssignmentColumns([]string{"alias_to"}),
	}).Create(&row).Error
	if err != nil {
		return errkind.Wrap(errkind.Db, err)
	}
	return nil
}
