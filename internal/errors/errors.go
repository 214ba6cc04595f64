// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors contains functionality for creating, classifying and wrapping
// errors raised while building and converting BigQuery metadata. Every error
// carries a Kind that survives wrapping, so callers can tell rejected input
// apart from other failures without matching on messages.
package errors

import (
	"fmt"
	"io"
	"strings"
)

// Kind classifies an error.
type Kind int

const (
	// Unknown is the kind of errors that were not classified.
	Unknown Kind = iota
	// InvalidArgument marks input rejected at the call that introduced it,
	// such as a dataset identity without a dataset name.
	InvalidArgument
)

// String returns a lower-case description of the kind.
func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

// New returns an error with the given message.
func New(message string) error {
	return &metaError{msg: message}
}

// Errorf returns an error with a message formatted according to the format
// specifier.
func Errorf(format string, args ...any) error {
	return &metaError{msg: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf returns an InvalidArgument error with a message formatted
// according to the format specifier.
func InvalidArgumentf(format string, args ...any) error {
	return &metaError{kind: InvalidArgument, msg: fmt.Sprintf(format, args...)}
}

// Wrap returns a new error annotating err with a new message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &metaError{
		cause: err,
		msg:   message,
		kind:  KindOf(err),
		top:   getTop(err),
	}
}

// Wrapf returns a new error annotating err with a new message according to
// the format specifier.
func Wrapf(err error, format string, args ...any) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithContext returns a new error adding additional context to err.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return &metaError{
		cause:   err,
		context: context,
		kind:    KindOf(err),
		top:     getTop(err),
	}
}

// WithContextf returns a new error adding additional context to err according
// to the format specifier.
func WithContextf(err error, format string, args ...any) error {
	return WithContext(err, fmt.Sprintf(format, args...))
}

// SetTopLevelMsg returns a new error with the given top level message. The top
// level message is the first error message that gets printed when Error()
// is called on the returned error or any error wrapping it.
func SetTopLevelMsg(err error, top string) error {
	if err == nil {
		return nil
	}
	return &metaError{
		cause: err,
		kind:  KindOf(err),
		top:   top,
	}
}

// SetTopLevelMsgf is SetTopLevelMsg with a format specifier.
func SetTopLevelMsgf(err error, format string, args ...any) error {
	return SetTopLevelMsg(err, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err, looking through any wrapping layers. Errors
// not created by this package are Unknown.
func KindOf(err error) Kind {
	for err != nil {
		if me, ok := err.(*metaError); ok && me.kind != Unknown {
			return me.kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return Unknown
		}
		err = u.Unwrap()
	}
	return Unknown
}

// IsInvalidArgument reports whether err, or any error it wraps, is an
// InvalidArgument error.
func IsInvalidArgument(err error) bool {
	return KindOf(err) == InvalidArgument
}

func getTop(e error) string {
	if me, ok := e.(*metaError); ok {
		return me.top
	}
	return ""
}

// metaError represents one or more details about an error. They are usually
// nested in the order that additional context was wrapped around the original
// error.
//
//   - If no cause is present it indicates that this instance is the original
//     error, and the message is assumed to be present.
//   - If both message and context are present, the context describes this
//     error, not the cause of this error.
//   - kind and top are always propagated up from the cause.
type metaError struct {
	cause   error  // The error being wrapped. If nil then this is the first error.
	context string // Adds additional context to this error and any following.
	msg     string // Message describing an error.
	kind    Kind
	top     string // The first error message to display to a user.
}

// Error outputs a metaError as a string. The top-level error message is
// displayed first, followed by each error's context and error message in
// sequence. The original error is output last.
func (e *metaError) Error() string {
	var builder strings.Builder

	if e.top != "" {
		builder.WriteString(fmt.Sprintf("%s\nFull error:\n", e.top))
	}

	e.printRecursive(&builder)

	return builder.String()
}

func (e *metaError) printRecursive(builder *strings.Builder) {
	wraps := e.cause != nil

	if e.context != "" {
		// Increase the indent for multi-line contexts.
		builder.WriteString(fmt.Sprintf("\t%s\n", strings.ReplaceAll(e.context, "\n", "\n\t")))
	}
	if e.msg != "" {
		builder.WriteString(e.msg)
		if wraps {
			builder.WriteString("\n\tcaused by:\n")
		}
	}

	if wraps {
		if me, ok := e.cause.(*metaError); ok {
			me.printRecursive(builder)
		} else {
			builder.WriteString(e.cause.Error())
		}
	}
}

// Format implements the fmt.Formatter interface
func (e *metaError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Unwrap returns the cause of this error if present.
func (e *metaError) Unwrap() error {
	return e.cause
}
