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

// Package log contains a re-targetable context-aware logging system. Callers
// log against a context, which lets the backend attach the dataset being
// processed without threading it through every call.
package log

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
)

// Severity is the severity of the log message.
type Severity int

const (
	SevUnspecified Severity = iota
	SevDebug
	SevInfo
	SevWarn
	SevError
	SevFatal
)

// String returns the upper-case name of the severity, such as "INFO".
func (s Severity) String() string {
	switch s {
	case SevDebug:
		return "DEBUG"
	case SevInfo:
		return "INFO"
	case SevWarn:
		return "WARN"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	default:
		return "UNSPECIFIED"
	}
}

// Logger is a context-aware logging backend. The richer context allows for
// more sophisticated logging setups. Must be concurrency safe.
type Logger interface {
	// Log logs the message in some implementation-dependent way. Log should
	// always return regardless of the severity.
	Log(ctx context.Context, sev Severity, calldepth int, msg string)
}

var (
	logger Logger = &Standard{Level: SevInfo}
)

// SetLogger sets the global Logger. Intended to be called during initialization
// only.
func SetLogger(l Logger) {
	if l == nil {
		panic("Logger cannot be nil")
	}
	logger = l
}

type datasetKey struct{}

// WithDataset returns a context that attributes subsequent log messages to
// the given dataset.
func WithDataset(ctx context.Context, dataset string) context.Context {
	return context.WithValue(ctx, datasetKey{}, dataset)
}

// DatasetFromContext returns the dataset attached by WithDataset, if any.
func DatasetFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	ds, ok := ctx.Value(datasetKey{}).(string)
	return ds, ok
}

// Standard is a wrapper over the standard Go logger. It prefixes messages with
// the severity and, when present, the dataset.
type Standard struct {
	// Level is the lowest severity written. Messages of unspecified severity
	// are always written.
	Level Severity
	// Out receives the messages. If nil, the standard logger is used.
	Out *stdlog.Logger
}

// Log logs the message to the standard Go logger. For Fatal, it does not
// perform the os.Exit(1) call, but defers to the log wrapper.
func (s *Standard) Log(ctx context.Context, sev Severity, calldepth int, msg string) {
	if sev != SevUnspecified && sev < s.Level {
		return
	}
	if ds, ok := DatasetFromContext(ctx); ok {
		msg = fmt.Sprintf("[%s] %s", ds, msg)
	}
	out := s.Out
	if out == nil {
		out = stdlog.Default()
	}
	out.Output(calldepth+1, fmt.Sprintf("%s %s", sev, msg))
}

// Output logs the given message to the global logger. Calldepth is the count
// of the number of frames to skip when computing the file name and line number.
func Output(ctx context.Context, sev Severity, calldepth int, msg string) {
	logger.Log(ctx, sev, calldepth+1, msg) // +1 for this frame
}

// User-facing logging functions.

// Debugf writes the fmt.Sprintf-formatted arguments to the global logger with
// debug severity.
func Debugf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevDebug, 2, fmt.Sprintf(format, v...))
}

// Info writes the fmt.Sprint-formatted arguments to the global logger with
// info severity.
func Info(ctx context.Context, v ...any) {
	Output(ctx, SevInfo, 2, fmt.Sprint(v...))
}

// Infof writes the fmt.Sprintf-formatted arguments to the global logger with
// info severity.
func Infof(ctx context.Context, format string, v ...any) {
	Output(ctx, SevInfo, 2, fmt.Sprintf(format, v...))
}

// Warnf writes the fmt.Sprintf-formatted arguments to the global logger with
// warn severity.
func Warnf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevWarn, 2, fmt.Sprintf(format, v...))
}

// Errorf writes the fmt.Sprintf-formatted arguments to the global logger with
// error severity.
func Errorf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevError, 2, fmt.Sprintf(format, v...))
}

// Exitf writes the fmt.Sprintf-formatted arguments to the global logger with
// fatal severity. It then exits.
func Exitf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevFatal, 2, fmt.Sprintf(format, v...))
	os.Exit(1)
}
