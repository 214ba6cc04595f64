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

import (
	"slices"
	"time"

	"github.com/apache/beam/bqmeta/internal/errors"
)

// DatasetBuilder assembles a DatasetInfo. The zero DatasetBuilder is usable,
// but Build fails until an identity is set. A builder must not be used from
// several goroutines at once.
//
// Attributes assigned by the server (creation and modification times, etag,
// id and self link) cannot be set through the builder; they are only filled
// in when a value is read from the transport model.
type DatasetBuilder struct {
	info DatasetInfo
}

// NewDatasetBuilder returns a builder for the dataset with the given
// identity, or an InvalidArgument error if id has no dataset name.
func NewDatasetBuilder(id DatasetID) (*DatasetBuilder, error) {
	b := &DatasetBuilder{}
	if err := b.SetDatasetID(id); err != nil {
		return nil, err
	}
	return b, nil
}

// SetDatasetID sets the dataset identity. It returns an InvalidArgument error,
// and leaves the builder unchanged, if id has no dataset name.
func (b *DatasetBuilder) SetDatasetID(id DatasetID) error {
	if err := id.Valid(); err != nil {
		return err
	}
	b.info.datasetID = id
	return nil
}

// SetAcl sets the dataset's access control configuration. The slice is
// copied, so later changes to acl are not observed. A nil acl leaves the
// configuration unset; an empty one grants no access.
func (b *DatasetBuilder) SetAcl(acl []Acl) *DatasetBuilder {
	b.info.acl = slices.Clone(acl)
	return b
}

// SetDefaultTableLifetime sets the default lifetime of all tables in the
// dataset. The server rejects lifetimes below MinDefaultTableLifetime. The
// lifetime travels in milliseconds; finer resolution is dropped.
func (b *DatasetBuilder) SetDefaultTableLifetime(lifetime time.Duration) *DatasetBuilder {
	b.info.defaultTableLifetime = FieldOf(lifetime.Truncate(time.Millisecond))
	return b
}

// ClearDefaultTableLifetime removes the default table lifetime.
func (b *DatasetBuilder) ClearDefaultTableLifetime() *DatasetBuilder {
	b.info.defaultTableLifetime = ClearedField[time.Duration]()
	return b
}

// SetDescription sets a user-friendly description for the dataset.
func (b *DatasetBuilder) SetDescription(description string) *DatasetBuilder {
	b.info.description = FieldOf(description)
	return b
}

// ClearDescription removes the description.
func (b *DatasetBuilder) ClearDescription() *DatasetBuilder {
	b.info.description = ClearedField[string]()
	return b
}

// SetFriendlyName sets a user-friendly name for the dataset.
func (b *DatasetBuilder) SetFriendlyName(name string) *DatasetBuilder {
	b.info.friendlyName = FieldOf(name)
	return b
}

// ClearFriendlyName removes the friendly name.
func (b *DatasetBuilder) ClearFriendlyName() *DatasetBuilder {
	b.info.friendlyName = ClearedField[string]()
	return b
}

// SetLocation sets the geographic location where the dataset should reside.
//
// See: https://cloud.google.com/bigquery/docs/locations.
func (b *DatasetBuilder) SetLocation(location string) *DatasetBuilder {
	b.info.location = FieldOf(location)
	return b
}

// ClearLocation removes the location.
func (b *DatasetBuilder) ClearLocation() *DatasetBuilder {
	b.info.location = ClearedField[string]()
	return b
}

func (b *DatasetBuilder) setCreationTime(t Field[time.Time]) *DatasetBuilder {
	b.info.creationTime = t
	return b
}

func (b *DatasetBuilder) setEtag(etag Field[string]) *DatasetBuilder {
	b.info.etag = etag
	return b
}

func (b *DatasetBuilder) setID(id Field[string]) *DatasetBuilder {
	b.info.id = id
	return b
}

func (b *DatasetBuilder) setLastModified(t Field[time.Time]) *DatasetBuilder {
	b.info.lastModified = t
	return b
}

func (b *DatasetBuilder) setSelfLink(link Field[string]) *DatasetBuilder {
	b.info.selfLink = link
	return b
}

// Build returns the DatasetInfo, or an InvalidArgument error if no identity
// was set. The builder may be reused; later changes do not affect values
// already built.
func (b *DatasetBuilder) Build() (*DatasetInfo, error) {
	if err := b.info.datasetID.Valid(); err != nil {
		return nil, errors.Wrap(err, "dataset identity is required")
	}
	info := b.info
	return &info, nil
}

// IsInvalidArgument reports whether err, or any error it wraps, reports
// input rejected by this package, such as a dataset identity without a
// dataset name or a malformed transport value.
func IsInvalidArgument(err error) bool {
	return errors.IsInvalidArgument(err)
}
