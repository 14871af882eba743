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

package errkind

import (
	"errors"
	"fmt"
	"runtime"
)

// Error is the concrete error type raised across the pipeline. It carries a
// Kind, an optional wrapped cause, and the frame it was created at so CLI
// and HTTP callers can log a useful trace without a third-party tracer.
type Error struct {
	kind   Kind
	msg    string
	cause  error
	frame  runtime.Frame
	status int // only meaningful for ChildExit
}

func frame() runtime.Frame {
	pc := make([]uintptr, 1)
	if runtime.Callers(3, pc) == 0 {
		return runtime.Frame{}
	}
	f, _ := runtime.CallersFrames(pc).Next()
	return f
}

// New creates an Error of the given kind with a message and no parent.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg, frame: frame()}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), frame: frame()}
}

// Wrap creates an Error of the given kind with cause as its parent. Returns
// nil if cause is nil, so callers can write `return errkind.Wrap(Io, err)`
// unconditionally.
func Wrap(kind Kind, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{kind: kind, msg: cause.Error(), cause: cause, frame: frame()}
}

// ChildExitError creates a ChildExit error carrying the subprocess exit status.
func ChildExitError(status int) *Error {
	return &Error{
		kind:   ChildExit,
		msg:    fmt.Sprintf("extractor exited with status %d", status),
		frame:  frame(),
		status: status,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.kind, e.cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap supports errors.Is / errors.As over the wrapped cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	if e == nil {
		return Unknown
	}
	return e.kind
}

// ExitStatus returns the subprocess exit status for a ChildExit error, or 0.
func (e *Error) ExitStatus() int {
	if e == nil {
		return 0
	}
	return e.status
}

// Frame returns the file:line the error was created at, for logging.
func (e *Error) Frame() (file string, line int) {
	if e == nil {
		return "", 0
	}
	return e.frame.File, e.frame.Line
}

// Is lets errors.Is(err, errkind.New(errkind.InputMalformed, "")) match any
// *Error of the same kind: only the kinds are compared, not the target's
// message or cause.
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return e.kind == o.kind
	}
	return false
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}

// Of extracts the *Error from err, if any.
func Of(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
