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

package bqmeta

import "fmt"

type fieldState uint8

const (
	unset fieldState = iota
	cleared
	set
)

// Field is an optional dataset attribute. Besides holding a value it tells a
// field that was never touched (the zero Field) apart from one that was
// explicitly cleared, so that an update can remove a value on the server
// instead of leaving it alone.
type Field[T any] struct {
	state fieldState
	value T
}

// FieldOf returns a Field set to v.
func FieldOf[T any](v T) Field[T] {
	return Field[T]{state: set, value: v}
}

// ClearedField returns an explicitly cleared Field.
func ClearedField[T any]() Field[T] {
	return Field[T]{state: cleared}
}

// Get returns the value and whether the field is set. A cleared field
// reports the zero value and false, like an unset one.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == set
}

// Value returns the value, or the zero value if the field is not set.
func (f Field[T]) Value() T {
	return f.value
}

// IsSet reports whether the field holds a value.
func (f Field[T]) IsSet() bool { return f.state == set }

// IsCleared reports whether the field was explicitly cleared.
func (f Field[T]) IsCleared() bool { return f.state == cleared }

// IsUnset reports whether the field was never touched.
func (f Field[T]) IsUnset() bool { return f.state == unset }

// String returns the value, "<cleared>" for a cleared field or "null" for
// an unset one.
func (f Field[T]) String() string {
	switch f.state {
	case set:
		return fmt.Sprint(f.value)
	case cleared:
		return "<cleared>"
	default:
		return "null"
	}
}
