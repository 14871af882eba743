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

// Package errkind provides the error taxonomy raised by the ingest pipeline
// and the read-side resolver: a small set of kinds, each carrying an
// optional parent error and the call site that raised it.
package errkind

// Kind classifies a failure the way the core pipeline distinguishes them,
// not by free-form message.
type Kind uint8

const (
	// Unknown is the zero value; a nil *Error reports it from Kind().
	Unknown Kind = iota
	// InputMalformed: corrupt tar header, truncated compression stream, etc.
	InputMalformed
	// ChildExit: the extractor subprocess exited non-zero.
	ChildExit
	// Io: read/write failure on a pipe, file, or network connection.
	Io
	// Db: database error.
	Db
	// NotFound: read-side lookup miss, surfaces as HTTP 404.
	NotFound
	// TemplateRender: read-side rendering failure, surfaces as HTTP 500.
	TemplateRender
	// SerdeDecode: (de)serialization failure, surfaces as HTTP 500.
	SerdeDecode
)

func (k Kind) String() string {
	switch k {
	case InputMalformed:
		return "input malformed"
	case ChildExit:
		return "child exit"
	case Io:
		return "io"
	case Db:
		return "db"
	case NotFound:
		return "not found"
	case TemplateRender:
		return "template render"
	case SerdeDecode:
		return "serde decode"
	default:
		return "unknown"
	}
}
