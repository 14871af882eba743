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

// Package bridge spawns an external extractor process and couples it to a
// caller-provided consumer through its stdin/stdout pipes. It is the only
// place in the pipeline that shells out: used at the outermost RPM step to
// normalize the RPM payload into a tar stream via `bsdtar -c @-`.
package bridge

import (
	"bytes"
	"context"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/nabbar/rpm-archivist/internal/errkind"
)

// DefaultExtractor is the argv used to normalize an RPM payload into a
// plain tar stream: bsdtar reading an archive described by stdin ("@-")
// and re-emitting it on stdout, regardless of the input container's own
// compression.
var DefaultExtractor = []string{"bsdtar", "-c", "@-"}

// Consumer runs against the extractor's stdout. Its error, if any, is the
// bridge's error; the extractor's own exit status is only surfaced as
// ChildExit when the writer and consumer both succeeded, since a failing
// consumer usually provoked the exit rather than the other way around.
type Consumer func(stdout io.Reader) error

// Run spawns argv (defaulting to DefaultExtractor when empty), pipes src
// into its stdin, and runs consume against its stdout. All three
// activities - writer, consumer, subprocess wait - run concurrently and are
// joined before Run returns; the wait reaps the extractor only after the
// consumer has finished with stdout. The first failure cancels the others. stdin is
// always closed, success or failure, so the extractor cannot block on a
// full pipe after the consumer has given up.
func Run(ctx context.Context, argv []string, src io.Reader, consume Consumer) error {
	if len(argv) == 0 {
		argv = DefaultExtractor
	}

	g, gctx := errgroup.WithContext(ctx)

	// cmd is bound to gctx, not ctx: if the consumer (or the writer) fails
	// first, gctx cancels and exec kills the extractor instead of leaving it
	// blocked writing to a stdout nobody drains anymore.
	cmd := exec.CommandContext(gctx, argv[0], argv[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errkind.Wrap(errkind.Io, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errkind.Wrap(errkind.Io, err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err = cmd.Start(); err != nil {
		return errkind.Wrap(errkind.Io, err)
	}

	pipeErr := make(chan error, 2)

	g.Go(func() error {
		_, werr := io.Copy(stdin, src)
		_ = stdin.Close()
		if werr != nil {
			werr = errkind.Wrap(errkind.Io, werr)
			pipeErr <- werr
			return werr
		}
		return nil
	})

	consumed := make(chan struct{})
	g.Go(func() error {
		defer close(consumed)
		if cerr := consume(stdout); cerr != nil {
			pipeErr <- cerr
			return cerr
		}
		// drain whatever the consumer left so the extractor never blocks on
		// a full stdout pipe before it can exit
		_, _ = io.Copy(io.Discard, stdout)
		return nil
	})

	waitErr := make(chan error, 1)
	g.Go(func() error {
		// cmd.Wait closes stdout once the extractor exits, so it must not
		// run while the consumer may still be reading buffered output.
		<-consumed
		e := cmd.Wait()
		waitErr <- e
		return e
	})

	joinErr := g.Wait()
	exitErr := <-waitErr
	close(pipeErr)

	// The writer/consumer's own error is the more specific diagnosis: a
	// non-zero or killed exit is frequently just the extractor reacting to
	// stdin closing early or nobody draining stdout, not the root cause.
	// Only when both pipe activities succeeded does the extractor's exit
	// status get to speak for the failure.
	if firstPipeErr, ok := <-pipeErr; ok {
		return firstPipeErr
	}

	if exitErr != nil {
		if ee, ok := exitErr.(*exec.ExitError); ok {
			return errkind.ChildExitError(ee.ExitCode())
		}
		return errkind.Wrap(errkind.Io, exitErr)
	}
	if joinErr != nil {
		return joinErr
	}
	return nil
}
