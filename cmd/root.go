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

// Package cmd wires the Cobra command tree: ingest-rpm and
// web, both backed by the same Viper-bound database configuration.
package cmd

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/nabbar/rpm-archivist/internal/store"
)

const envPrefix = "RPMARCHIVIST"

// Execute builds the root command and runs it, returning the command's
// error; main prints that error (errkind.Error's Error() prefixes the kind)
// and exits non-zero.
func Execute() error {
	root := &cobra.Command{
		Use:   "rpm-archivist",
		Short: "content-addressed archive ingester and read surface",
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.PersistentFlags().String("db-driver", "sqlite", "database driver: psql or sqlite")
	root.PersistentFlags().String("db-dsn", "file:rpm-archivist.db", "database DSN")
	_ = v.BindPFlag("db-driver", root.PersistentFlags().Lookup("db-driver"))
	_ = v.BindPFlag("db-dsn", root.PersistentFlags().Lookup("db-dsn"))

	root.AddCommand(newIngestRPMCommand(v))
	root.AddCommand(newWebCommand(v))

	return root.Execute()
}

func openStore(v *viper.Viper) (*gorm.DB, func() error, error) {
	driver := store.DriverFromString(v.GetString("db-driver"))
	dsn := v.GetString("db-dsn")

	db, err := store.Open(store.Config{Driver: driver, DSN: dsn})
	if err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{"driver": driver, "dsn": dsn}).Debug("database opened")

	closeFn := func() error {
		sqlDB, e := db.DB()
		if e != nil {
			return e
		}
		return sqlDB.Close()
	}

	return db, closeFn, nil
}
