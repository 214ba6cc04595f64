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
	bq "google.golang.org/api/bigquery/v2"
)

// Names of the bq.Dataset fields, as used in ForceSendFields and NullFields.
const (
	fieldAccess                   = "Access"
	fieldCreationTime             = "CreationTime"
	fieldDefaultTableExpirationMs = "DefaultTableExpirationMs"
	fieldDescription              = "Description"
	fieldEtag                     = "Etag"
	fieldFriendlyName             = "FriendlyName"
	fieldID                       = "Id"
	fieldLastModifiedTime         = "LastModifiedTime"
	fieldLocation                 = "Location"
	fieldSelfLink                 = "SelfLink"
)

// wireFields collects the ForceSendFields and NullFields of a transport
// object. A cleared field is sent as an explicit null; a field set to the
// zero value is force-sent so that it is not mistaken for an unset one.
type wireFields struct {
	force, null []string
}

func put[T any, W comparable](w *wireFields, name string, f Field[T], conv func(T) W, dst *W) {
	switch {
	case f.IsCleared():
		w.null = append(w.null, name)
	case f.IsSet():
		*dst = conv(f.value)
		var zero W
		if *dst == zero {
			w.force = append(w.force, name)
		}
	}
}

func get[W comparable, T any](ds *bq.Dataset, name string, v W, conv func(W) T) Field[T] {
	var zero W
	switch {
	case slices.Contains(ds.NullFields, name):
		return ClearedField[T]()
	case v != zero || slices.Contains(ds.ForceSendFields, name):
		return FieldOf(conv(v))
	default:
		return Field[T]{}
	}
}

func same[T any](v T) T { return v }

func toMillis(t time.Time) int64            { return t.UnixMilli() }
func fromMillis(ms int64) time.Time         { return time.UnixMilli(ms).UTC() }
func durationMillis(d time.Duration) int64  { return d.Milliseconds() }
func millisDuration(ms int64) time.Duration { return time.Duration(ms) * time.Millisecond }

// ToBQ returns the transport form of d, suitable for a Datasets insert,
// update or patch request. The result is a fresh object the caller may
// modify. An unset access control list leaves Access nil.
func (d *DatasetInfo) ToBQ() *bq.Dataset {
	ds := &bq.Dataset{DatasetReference: d.datasetID.ToBQ()}
	var w wireFields
	put(&w, fieldCreationTime, d.creationTime, toMillis, &ds.CreationTime)
	put(&w, fieldDefaultTableExpirationMs, d.defaultTableLifetime, durationMillis, &ds.DefaultTableExpirationMs)
	put(&w, fieldDescription, d.description, same[string], &ds.Description)
	put(&w, fieldEtag, d.etag, same[string], &ds.Etag)
	put(&w, fieldFriendlyName, d.friendlyName, same[string], &ds.FriendlyName)
	put(&w, fieldID, d.id, same[string], &ds.Id)
	put(&w, fieldLastModifiedTime, d.lastModified, toMillis, &ds.LastModifiedTime)
	put(&w, fieldLocation, d.location, same[string], &ds.Location)
	put(&w, fieldSelfLink, d.selfLink, same[string], &ds.SelfLink)
	if d.acl != nil {
		ds.Access = make([]*bq.DatasetAccess, 0, len(d.acl))
		for _, a := range d.acl {
			ds.Access = append(ds.Access, a.ToBQ())
		}
		if len(ds.Access) == 0 {
			w.force = append(w.force, fieldAccess)
		}
	}
	ds.ForceSendFields = w.force
	ds.NullFields = w.null
	return ds
}

// DatasetFromBQ converts a transport dataset, typically the body of a
// Datasets get or list response. Fields listed in NullFields come back
// cleared; zero-valued fields come back unset unless listed in
// ForceSendFields. It fails with InvalidArgument if the dataset reference is
// missing or an access entry cannot be understood.
func DatasetFromBQ(ds *bq.Dataset) (*DatasetInfo, error) {
	if ds == nil {
		return nil, errors.InvalidArgumentf("nil dataset")
	}
	b := &DatasetBuilder{}
	if err := b.SetDatasetID(DatasetIDFromBQ(ds.DatasetReference)); err != nil {
		return nil, errors.Wrap(err, "invalid dataset reference")
	}
	if ds.Access != nil {
		acl := make([]Acl, 0, len(ds.Access))
		for i, access := range ds.Access {
			a, err := AclFromBQ(access)
			if err != nil {
				return nil, errors.WithContextf(err, "access entry %d of dataset %v", i, b.info.datasetID)
			}
			acl = append(acl, a)
		}
		b.info.acl = acl
	}
	b.info.defaultTableLifetime = get(ds, fieldDefaultTableExpirationMs, ds.DefaultTableExpirationMs, millisDuration)
	b.info.description = get(ds, fieldDescription, ds.Description, same[string])
	b.info.friendlyName = get(ds, fieldFriendlyName, ds.FriendlyName, same[string])
	b.info.location = get(ds, fieldLocation, ds.Location, same[string])
	b.setCreationTime(get(ds, fieldCreationTime, ds.CreationTime, fromMillis)).
		setEtag(get(ds, fieldEtag, ds.Etag, same[string])).
		setID(get(ds, fieldID, ds.Id, same[string])).
		setLastModified(get(ds, fieldLastModifiedTime, ds.LastModifiedTime, fromMillis)).
		setSelfLink(get(ds, fieldSelfLink, ds.SelfLink, same[string]))
	return b.Build()
}
