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

package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nabbar/rpm-archivist/internal/errkind"
	"github.com/nabbar/rpm-archivist/internal/ingest"
	"github.com/nabbar/rpm-archivist/internal/store"
)

func newIngestRPMCommand(v *viper.Viper) *cobra.Command {
	var file, vendor, pkg, version string
	var fetch bool

	c := &cobra.Command{
		Use:   "ingest-rpm",
		Short: "ingest an RPM payload into the content-addressed store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestRPM(cmd, v, file, fetch, vendor, pkg, version)
		},
	}

	c.Flags().StringVar(&file, "file", "", "path or URL to the RPM payload")
	c.Flags().BoolVar(&fetch, "fetch", false, "treat --file as a URL and download it")
	c.Flags().StringVar(&vendor, "vendor", "", "vendor name recorded on every Ref")
	c.Flags().StringVar(&pkg, "package", "", "package name recorded on every Ref")
	c.Flags().StringVar(&version, "version", "", "package version recorded on every Ref")
	_ = c.MarkFlagRequired("file")
	_ = c.MarkFlagRequired("vendor")
	_ = c.MarkFlagRequired("package")
	_ = c.MarkFlagRequired("version")

	return c
}

func runIngestRPM(cmd *cobra.Command, v *viper.Viper, file string, fetch bool, vendor, pkg, version string) error {
	db, closeFn, err := openStore(v)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	source, err := openPayload(file, fetch)
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()

	log := logrus.WithFields(logrus.Fields{"vendor": vendor, "package": pkg, "version": version})
	log.Info("starting rpm ingest")

	if err = ingest.IngestRPM(cmd.Context(), store.NewRecorder(db), source, vendor, pkg, version); err != nil {
		log.WithError(err).Error("rpm ingest failed")
		return err
	}

	log.Info("rpm ingest completed")
	return nil
}

// openPayload resolves --file/--fetch into a readable source: a local file
// when fetch is false, an HTTP GET body when true.
func openPayload(file string, fetch bool) (io.ReadCloser, error) {
	if !fetch {
		f, err := os.Open(file)
		if err != nil {
			return nil, errkind.Wrap(errkind.Io, err)
		}
		return f, nil
	}

	resp, err := http.Get(file) //nolint:gosec // --fetch explicitly asks to download a caller-supplied URL
	if err != nil {
		return nil, errkind.Wrap(errkind.Io, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errkind.New(errkind.Io, fmt.Sprintf("fetch %s: unexpected status %s", file, resp.Status))
	}
	return resp.Body, nil
}
