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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nabbar/rpm-archivist/internal/web"
)

func newWebCommand(v *viper.Viper) *cobra.Command {
	var bindAddr string

	c := &cobra.Command{
		Use:   "web",
		Short: "serve the HTTP read surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(v, bindAddr)
		},
	}

	c.Flags().StringVar(&bindAddr, "bind-addr", "127.0.0.1:8080", "address to bind the HTTP read surface on")

	return c
}

func runWeb(v *viper.Viper, bindAddr string) error {
	db, closeFn, err := openStore(v)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	engine := web.NewEngine(db)

	logrus.WithField("bind_addr", bindAddr).Info("starting read surface")
	return engine.Run(bindAddr)
}
