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

package web

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/nabbar/rpm-archivist/internal/errkind"
	"github.com/nabbar/rpm-archivist/internal/ingest"
)

// importDateCount is one row of the /stats import-dates breakdown.
type importDateCount struct {
	Date  string `gorm:"column:d"`
	Count int64  `gorm:"column:c"`
}

// Stats is the data the /stats page renders: per-day import counts, their
// sum, and the number of ingests currently in flight.
type Stats struct {
	ImportDates    []importDateCount
	TotalArtifacts int64
	PendingTasks   int64
}

// collectStats runs the import-dates query on its own errgroup goroutine
// -- the same join primitive the decompression bridge uses for its
// three-way join -- while the pending-task count, a plain atomic read,
// runs inline; the two results are merged once the query returns.
func collectStats(ctx context.Context, db *gorm.DB) (*Stats, error) {
	var dates []importDateCount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).
			Table("artifacts").
			Select("date(last_imported) as d, count(*) as c").
			Group("date(last_imported)").
			Order("d").
			Scan(&dates).Error
	})

	pending := ingest.PendingTasks()

	if err := g.Wait(); err != nil {
		return nil, errkind.Wrap(errkind.Db, err)
	}

	var total int64
	for _, d := range dates {
		total += d.Count
	}

	return &Stats{ImportDates: dates, TotalArtifacts: total, PendingTasks: pending}, nil
}
