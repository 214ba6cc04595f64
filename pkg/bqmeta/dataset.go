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

// Package bqmeta describes BigQuery datasets as immutable values. A
// DatasetInfo is assembled with a DatasetBuilder, converted to and from the
// REST transport model of google.golang.org/api/bigquery/v2, and "updated"
// by deriving a builder from an existing value. Values can be shared between
// goroutines freely; builders cannot.
//
// See also: https://cloud.google.com/bigquery/docs/datasets-intro.
package bqmeta

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// MinDefaultTableLifetime is the smallest default table lifetime BigQuery
// accepts. It is enforced by the server, not by this package.
const MinDefaultTableLifetime = time.Hour

// DatasetInfo describes a BigQuery dataset. A dataset is a grouping
// mechanism that holds zero or more tables, and is the lowest level unit of
// access control.
//
// The identity is always present. Every other attribute may be unset, and
// the user-settable ones may also be explicitly cleared; see Field.
type DatasetInfo struct {
	datasetID            DatasetID
	acl                  []Acl // nil means unset, distinct from empty
	creationTime         Field[time.Time]
	defaultTableLifetime Field[time.Duration]
	description          Field[string]
	etag                 Field[string]
	friendlyName         Field[string]
	id                   Field[string]
	lastModified         Field[time.Time]
	location             Field[string]
	selfLink             Field[string]
}

// DatasetID returns the dataset identity.
func (d *DatasetInfo) DatasetID() DatasetID {
	return d.datasetID
}

// Acl returns the dataset's access control configuration, or nil if unset.
// The returned slice is a copy.
//
// See: https://cloud.google.com/bigquery/access-control.
func (d *DatasetInfo) Acl() []Acl {
	return slices.Clone(d.acl)
}

// CreationTime returns the time when the dataset was created. It is assigned
// by the server.
func (d *DatasetInfo) CreationTime() Field[time.Time] {
	return d.creationTime
}

// DefaultTableLifetime returns the default lifetime of all tables in the
// dataset. Once set, newly created tables expire at their creation time plus
// this lifetime; changing it does not affect existing tables, and an explicit
// table expiration takes precedence.
func (d *DatasetInfo) DefaultTableLifetime() Field[time.Duration] {
	return d.defaultTableLifetime
}

// Description returns a user-friendly description of the dataset.
func (d *DatasetInfo) Description() Field[string] {
	return d.description
}

// Etag returns the hash of the dataset resource.
func (d *DatasetInfo) Etag() Field[string] {
	return d.etag
}

// FriendlyName returns a user-friendly name for the dataset.
func (d *DatasetInfo) FriendlyName() Field[string] {
	return d.friendlyName
}

// ID returns an opaque id for the dataset, assigned by the server.
func (d *DatasetInfo) ID() Field[string] {
	return d.id
}

// LastModified returns the time when the dataset or any of its tables was
// last modified.
func (d *DatasetInfo) LastModified() Field[time.Time] {
	return d.lastModified
}

// Location returns the geographic location where the dataset resides.
func (d *DatasetInfo) Location() Field[string] {
	return d.location
}

// SelfLink returns a URL that can be used to access the resource again, for
// get or update requests.
func (d *DatasetInfo) SelfLink() Field[string] {
	return d.selfLink
}

// ToBuilder returns a builder initialized with the attributes of d. Building
// it without changes yields a value equal to d.
func (d *DatasetInfo) ToBuilder() *DatasetBuilder {
	return &DatasetBuilder{info: *d}
}

// WithProjectID returns a copy of d adopted into project: the identity is
// scoped to project, and so is every authorized view that does not name a
// project of its own. Other access entries, and views that are already
// scoped, are kept as they are, in the same order.
func (d *DatasetInfo) WithProjectID(project string) *DatasetInfo {
	info := *d
	info.datasetID = d.datasetID.WithProject(project)
	if d.acl != nil {
		acl := make([]Acl, 0, len(d.acl))
		for _, a := range d.acl {
			if v, ok := a.Entity.(View); ok && v.Table.Project == "" {
				a.Entity = View{Table: v.Table.WithProject(project)}
			}
			acl = append(acl, a)
		}
		info.acl = acl
	}
	return &info
}

// Equal reports whether d and other have the same transport form. Two nil
// values are equal; a nil value never equals a non-nil one.
func (d *DatasetInfo) Equal(other *DatasetInfo) bool {
	if d == nil || other == nil {
		return d == other
	}
	return reflect.DeepEqual(d.ToBQ(), other.ToBQ())
}

// Hash returns a hash of the dataset identity. Values that are Equal have
// the same hash; values with the same identity but different attributes
// collide, and must be told apart with Equal.
func (d *DatasetInfo) Hash() uint64 {
	return xxh3.HashString(d.datasetID.Project + "\x00" + d.datasetID.Dataset)
}

// String returns a human-readable dump of every attribute, for diagnostics.
func (d *DatasetInfo) String() string {
	var b strings.Builder
	b.WriteString("DatasetInfo{")
	fmt.Fprintf(&b, "datasetId=%v", d.datasetID)
	fmt.Fprintf(&b, ", creationTime=%v", millisField(d.creationTime))
	fmt.Fprintf(&b, ", defaultTableLifetime=%v", d.defaultTableLifetime)
	fmt.Fprintf(&b, ", description=%v", d.description)
	fmt.Fprintf(&b, ", etag=%v", d.etag)
	fmt.Fprintf(&b, ", friendlyName=%v", d.friendlyName)
	fmt.Fprintf(&b, ", id=%v", d.id)
	fmt.Fprintf(&b, ", lastModified=%v", millisField(d.lastModified))
	fmt.Fprintf(&b, ", location=%v", d.location)
	fmt.Fprintf(&b, ", selfLink=%v", d.selfLink)
	if d.acl == nil {
		b.WriteString(", acl=null")
	} else {
		fmt.Fprintf(&b, ", acl=%v", d.acl)
	}
	b.WriteString("}")
	return b.String()
}

// millisField renders a timestamp as milliseconds since the epoch, the
// resolution BigQuery reports.
func millisField(f Field[time.Time]) fmt.Stringer {
	t, ok := f.Get()
	if !ok {
		return Field[int64]{state: f.state}
	}
	return FieldOf(t.UnixMilli())
}
