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

package log

import (
	"context"
	"log/slog"
)

// Structural is a wrapper over slog. Messages carry the dataset from the
// context as a "dataset" attribute.
type Structural struct {
	// Handler receives the records. If nil, slog.Default() is used.
	Handler slog.Handler
}

var levels = map[Severity]slog.Level{
	SevUnspecified: slog.LevelInfo,
	SevDebug:       slog.LevelDebug,
	SevInfo:        slog.LevelInfo,
	SevWarn:        slog.LevelWarn,
	SevError:       slog.LevelError,
	SevFatal:       slog.LevelError,
}

// Log logs the message to the structural Go logger. For Fatal, it does not
// perform the os.Exit(1) call, but defers to the log wrapper.
func (s *Structural) Log(ctx context.Context, sev Severity, _ int, msg string) {
	l := slog.Default()
	if s.Handler != nil {
		l = slog.New(s.Handler)
	}
	if ds, ok := DatasetFromContext(ctx); ok {
		l = l.With(slog.String("dataset", ds))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	l.Log(ctx, levels[sev], msg)
}
