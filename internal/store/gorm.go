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
	"fmt"

	libval "github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	gormdb "gorm.io/gorm"
	gorlog "gorm.io/gorm/logger"

	"github.com/nabbar/rpm-archivist/internal/errkind"
)

// Config is the subset of connection options the CLI binds from Viper
// (RPMARCHIVIST_DB_*). Trimmed from the pack's general-purpose gorm config
// down to what a single-tenant ingester/read-surface needs.
type Config struct {
	Driver Driver `mapstructure:"driver" validate:"required"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

// Validate runs the struct-tag constraints above, following the pack's
// gorm config pattern of validating with go-playground/validator rather
// than hand-rolled field checks.
func (c Config) Validate() error {
	if err := libval.New().Struct(c); err != nil {
		if _, ok := err.(*libval.InvalidValidationError); ok {
			return errkind.Wrap(errkind.InputMalformed, err)
		}
		for _, fe := range err.(libval.ValidationErrors) {
			return errkind.New(errkind.InputMalformed, fmt.Sprintf("store: config field %q fails constraint %q", fe.Namespace(), fe.ActualTag()))
		}
	}
	return nil
}

// Open validates cfg, opens the dialector-appropriate connection, and
// registers the models via AutoMigrate.
// Migration failures and connection failures are both Db-kind errors; the
// caller (cmd) logs the error chain and exits non-zero.
func Open(cfg Config) (*gormdb.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := gormdb.Open(cfg.Driver.Dialector(cfg.DSN), &gormdb.Config{
		Logger: gorlog.New(logrusWriter{}, gorlog.Config{
			LogLevel: gorlog.Warn,
		}),
	})
	if err != nil {
		return nil, errkind.Wrap(errkind.Db, err)
	}

	if err = db.AutoMigrate(Models...); err != nil {
		return nil, errkind.Wrap(errkind.Db, err)
	}

	return db, nil
}

// logrusWriter adapts gorm's logger.Writer interface to the package-wide
// logrus convention used everywhere else in this module.
type logrusWriter struct{}

func (logrusWriter) Printf(format string, args ...interface{}) {
	logrus.WithField("component", "gorm").Infof(format, args...)
}
