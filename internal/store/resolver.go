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
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nabbar/rpm-archivist/internal/errkind"
)

// Resolver is the artifact resolver: read-side lookups used
// by the HTTP surface.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve follows at most one alias hop, then returns the Artifact or
// errkind.NotFound. Aliases never chain, so a second alias row pointing at the
// result of the first is deliberately ignored.
func (r *Resolver) Resolve(ctx context.Context, chksum string) (*Artifact, error) {
	target := chksum

	var alias Alias
	err := r.db.WithContext(ctx).Where("chksum = ?", chksum).First(&alias).Error
	switch {
	case err == nil:
		target = alias.AliasTo
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no alias: resolve the chksum directly
	default:
		return nil, errkind.Wrap(errkind.Db, err)
	}

	var artifact Artifact
	err = r.db.WithContext(ctx).Where("chksum = ?", target).First(&artifact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errkind.New(errkind.NotFound, "artifact "+target+" not found")
	}
	if err != nil {
		return nil, errkind.Wrap(errkind.Db, err)
	}
	return &artifact, nil
}

// GetSBOM returns the SBOM blob stored under chksum, or errkind.NotFound.
func (r *Resolver) GetSBOM(ctx context.Context, chksum string) (*SBOM, error) {
	var sbom SBOM
	err := r.db.WithContext(ctx).Where("chksum = ?", chksum).First(&sbom).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errkind.New(errkind.NotFound, "sbom "+chksum+" not found")
	}
	if err != nil {
		return nil, errkind.Wrap(errkind.Db, err)
	}
	return &sbom, nil
}

// AllRefsFor returns every Ref pointing at the given digest.
func (r *Resolver) AllRefsFor(ctx context.Context, chksum string) ([]Ref, error) {
	var refs []Ref
	err := r.db.WithContext(ctx).Where("chksum = ?", chksum).Order("vendor, package, version, filename").Find(&refs).Error
	if err != nil {
		return nil, errkind.Wrap(errkind.Db, err)
	}
	return refs, nil
}

// SBOMRefsForArchive returns the SBOMs that document the given archive
// digest.
func (r *Resolver) SBOMRefsForArchive(ctx context.Context, archiveChksum string) ([]SBOMRef, error) {
	var refs []SBOMRef
	err := r.db.WithContext(ctx).Where("archive_chksum = ?", archiveChksum).Find(&refs).Error
	if err != nil {
		return nil, errkind.Wrap(errkind.Db, err)
	}
	return refs, nil
}

// SBOMRefsForSBOM returns the archives a given SBOM digest documents.
func (r *Resolver) SBOMRefsForSBOM(ctx context.Context, sbomChksum string) ([]SBOMRef, error) {
	var refs []SBOMRef
	err := r.db.WithContext(ctx).Where("sbom_chksum = ?", sbomChksum).Find(&refs).Error
	if err != nil {
		return nil, errkind.Wrap(errkind.Db, err)
	}
	return refs, nil
}

// Search performs the prefix-like package-name match: `%`
// and `_` are stripped from query (they are SQL LIKE metacharacters the
// caller must not be able to inject), a trailing `%` is appended, and limit
// is mandatory.
func (r *Resolver) Search(ctx context.Context, query string, limit int) ([]Ref, error) {
	if limit <= 0 {
		return nil, errkind.New(errkind.InputMalformed, "store: search requires a positive limit")
	}

	cleaned := strings.NewReplacer("%", "", "_", "").Replace(query)
	pattern := cleaned + "%"

	var refs []Ref
	err := r.db.WithContext(ctx).
		Where("package LIKE ?", pattern).
		Order("vendor, package, version, filename").
		Limit(limit).
		Find(&refs).Error
	if err != nil {
		return nil, errkind.Wrap(errkind.Db, err)
	}
	return refs, nil
}
