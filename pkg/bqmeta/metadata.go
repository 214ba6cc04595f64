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
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/apache/beam/bqmeta/internal/errors"
)

// ToMetadata returns d as client library metadata, suitable for
// bigquery.Dataset.Create. Unset and cleared attributes are left at their
// zero values.
func (d *DatasetInfo) ToMetadata() *bigquery.DatasetMetadata {
	md := &bigquery.DatasetMetadata{
		Name:                   d.friendlyName.Value(),
		Description:            d.description.Value(),
		Location:               d.location.Value(),
		DefaultTableExpiration: d.defaultTableLifetime.Value(),
		CreationTime:           d.creationTime.Value(),
		LastModifiedTime:       d.lastModified.Value(),
		FullID:                 d.id.Value(),
		ETag:                   d.etag.Value(),
	}
	if d.acl != nil {
		md.Access = make([]*bigquery.AccessEntry, 0, len(d.acl))
		for _, a := range d.acl {
			md.Access = append(md.Access, a.toAccessEntry())
		}
	}
	return md
}

// ToMetadataToUpdate returns the update that brings a dataset in line with
// d, suitable for bigquery.Dataset.Update. Set attributes are written,
// cleared ones are removed and unset ones are left alone. The access control
// list replaces the server's only when it is set. The location of an existing
// dataset cannot change and is not part of the update.
func (d *DatasetInfo) ToMetadataToUpdate() bigquery.DatasetMetadataToUpdate {
	var dm bigquery.DatasetMetadataToUpdate
	if !d.description.IsUnset() {
		dm.Description = d.description.Value()
	}
	if !d.friendlyName.IsUnset() {
		dm.Name = d.friendlyName.Value()
	}
	if !d.defaultTableLifetime.IsUnset() {
		dm.DefaultTableExpiration = d.defaultTableLifetime.Value()
	}
	if d.acl != nil {
		dm.Access = make([]*bigquery.AccessEntry, 0, len(d.acl))
		for _, a := range d.acl {
			dm.Access = append(dm.Access, a.toAccessEntry())
		}
	}
	return dm
}

// DatasetFromMetadata converts client library metadata of the dataset id, as
// returned by bigquery.Dataset.Metadata. Empty attributes come back unset.
func DatasetFromMetadata(id DatasetID, md *bigquery.DatasetMetadata) (*DatasetInfo, error) {
	if md == nil {
		return nil, errors.InvalidArgumentf("nil metadata for dataset %v", id)
	}
	b, err := NewDatasetBuilder(id)
	if err != nil {
		return nil, err
	}
	if md.Name != "" {
		b.SetFriendlyName(md.Name)
	}
	if md.Description != "" {
		b.SetDescription(md.Description)
	}
	if md.Location != "" {
		b.SetLocation(md.Location)
	}
	if md.DefaultTableExpiration != 0 {
		b.SetDefaultTableLifetime(md.DefaultTableExpiration)
	}
	if md.Access != nil {
		acl := make([]Acl, 0, len(md.Access))
		for i, e := range md.Access {
			a, err := aclFromAccessEntry(e)
			if err != nil {
				return nil, errors.WithContextf(err, "access entry %d of dataset %v", i, id)
			}
			acl = append(acl, a)
		}
		b.info.acl = acl
	}
	if !md.CreationTime.IsZero() {
		b.setCreationTime(FieldOf(md.CreationTime.Truncate(time.Millisecond).UTC()))
	}
	if !md.LastModifiedTime.IsZero() {
		b.setLastModified(FieldOf(md.LastModifiedTime.Truncate(time.Millisecond).UTC()))
	}
	if md.ETag != "" {
		b.setEtag(FieldOf(md.ETag))
	}
	if md.FullID != "" {
		b.setID(FieldOf(md.FullID))
	}
	return b.Build()
}

func (a Acl) toAccessEntry() *bigquery.AccessEntry {
	e := &bigquery.AccessEntry{Role: bigquery.AccessRole(a.Role)}
	switch entity := a.Entity.(type) {
	case Domain:
		e.EntityType, e.Entity = bigquery.DomainEntity, entity.Domain
	case Group:
		if entity.IsSpecial() {
			e.EntityType = bigquery.SpecialGroupEntity
		} else {
			e.EntityType = bigquery.GroupEmailEntity
		}
		e.Entity = entity.ID
	case User:
		e.EntityType, e.Entity = bigquery.UserEmailEntity, entity.Email
	case IAMMember:
		e.EntityType, e.Entity = bigquery.IAMMemberEntity, entity.Member
	case View:
		e.EntityType = bigquery.ViewEntity
		e.View = &bigquery.Table{
			ProjectID: entity.Table.Project,
			DatasetID: entity.Table.Dataset,
			TableID:   entity.Table.Table,
		}
	}
	return e
}

func aclFromAccessEntry(e *bigquery.AccessEntry) (Acl, error) {
	if e == nil {
		return Acl{}, errors.InvalidArgumentf("nil access entry")
	}
	role := Role(e.Role)
	switch e.EntityType {
	case bigquery.DomainEntity:
		return NewAcl(Domain{Domain: e.Entity}, role), nil
	case bigquery.GroupEmailEntity, bigquery.SpecialGroupEntity:
		return NewAcl(Group{ID: e.Entity}, role), nil
	case bigquery.UserEmailEntity:
		return NewAcl(User{Email: e.Entity}, role), nil
	case bigquery.IAMMemberEntity:
		return NewAcl(IAMMember{Member: e.Entity}, role), nil
	case bigquery.ViewEntity:
		if e.View == nil {
			return Acl{}, errors.InvalidArgumentf("view access entry without a view")
		}
		view := NewTableID(e.View.ProjectID, e.View.DatasetID, e.View.TableID)
		return Acl{Entity: View{Table: view}, Role: role}, nil
	case 0:
		// Written by toAccessEntry for an entry without a principal.
		return Acl{Role: role}, nil
	default:
		return Acl{}, errors.InvalidArgumentf("unsupported access entity type %v", e.EntityType)
	}
}
