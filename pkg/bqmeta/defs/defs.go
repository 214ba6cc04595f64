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

// Package defs reads declarative dataset definitions from YAML.
//
// A definition file lists datasets:
//
//	datasets:
//	- id: analytics                # or project:analytics
//	  friendlyName: Analytics
//	  description: Curated tables.
//	  defaultTableLifetime: 720h
//	  clear: [location]            # fields to clear explicitly
//	  access:
//	  - role: OWNER
//	    special: projectOwners
//	  - role: READER
//	    group: analysts@example.com
//	  - view: reports.v_daily      # or project:reports.v_daily
//
// Datasets and views without a project are unscoped; callers adopt them into
// a project with bqmeta.DatasetInfo.WithProjectID.
package defs

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/apache/beam/bqmeta/internal/errors"
	"github.com/apache/beam/bqmeta/pkg/bqmeta"
	"github.com/apache/beam/bqmeta/pkg/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"
)

// File is the document root of a definition file.
type File struct {
	Datasets []Dataset `yaml:"datasets"`
}

// Dataset is the definition of a single dataset.
type Dataset struct {
	ID                   string   `yaml:"id"`
	FriendlyName         string   `yaml:"friendlyName,omitempty"`
	Description          string   `yaml:"description,omitempty"`
	Location             string   `yaml:"location,omitempty"`
	DefaultTableLifetime string   `yaml:"defaultTableLifetime,omitempty"`
	Clear                []string `yaml:"clear,omitempty"`
	Access               []Access `yaml:"access,omitempty"`
}

// Access is a single access control entry. Exactly one principal must be
// given.
type Access struct {
	Role      string `yaml:"role,omitempty"`
	Domain    string `yaml:"domain,omitempty"`
	Group     string `yaml:"group,omitempty"`
	User      string `yaml:"user,omitempty"`
	IAMMember string `yaml:"iamMember,omitempty"`
	Special   string `yaml:"special,omitempty"`
	View      string `yaml:"view,omitempty"`
}

var specialGroups = map[string]bqmeta.Group{
	"projectOwners":         bqmeta.ProjectOwners(),
	"projectReaders":        bqmeta.ProjectReaders(),
	"projectWriters":        bqmeta.ProjectWriters(),
	"allAuthenticatedUsers": bqmeta.AllAuthenticatedUsers(),
}

var roles = map[string]bqmeta.Role{
	"OWNER":  bqmeta.RoleOwner,
	"READER": bqmeta.RoleReader,
	"WRITER": bqmeta.RoleWriter,
}

// Parse decodes a definition file. Unknown keys are rejected.
func Parse(data []byte) ([]*bqmeta.DatasetInfo, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.SetTopLevelMsg(errors.InvalidArgumentf("%v", err), "malformed dataset definitions")
	}
	infos := make([]*bqmeta.DatasetInfo, 0, len(f.Datasets))
	for i, d := range f.Datasets {
		info, err := d.Build()
		if err != nil {
			return nil, errors.WithContextf(err, "dataset %d (%q)", i, d.ID)
		}
		infos = append(infos, info)
	}
	if err := checkDuplicates(infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// Build converts the definition into a DatasetInfo.
func (d Dataset) Build() (*bqmeta.DatasetInfo, error) {
	id, err := bqmeta.ParseDatasetID(d.ID)
	if err != nil {
		return nil, err
	}
	b, err := bqmeta.NewDatasetBuilder(id)
	if err != nil {
		return nil, err
	}
	if d.FriendlyName != "" {
		b.SetFriendlyName(d.FriendlyName)
	}
	if d.Description != "" {
		b.SetDescription(d.Description)
	}
	if d.Location != "" {
		b.SetLocation(d.Location)
	}
	if d.DefaultTableLifetime != "" {
		lifetime, err := time.ParseDuration(d.DefaultTableLifetime)
		if err != nil {
			return nil, errors.InvalidArgumentf("invalid defaultTableLifetime %q: %v", d.DefaultTableLifetime, err)
		}
		if lifetime <= 0 {
			return nil, errors.InvalidArgumentf("defaultTableLifetime must be positive, got %v", lifetime)
		}
		b.SetDefaultTableLifetime(lifetime)
	}
	for _, field := range d.Clear {
		if err := clearField(b, field); err != nil {
			return nil, err
		}
	}
	if d.Access != nil {
		acl := make([]bqmeta.Acl, 0, len(d.Access))
		for i, a := range d.Access {
			entry, err := a.acl()
			if err != nil {
				return nil, errors.WithContextf(err, "access entry %d", i)
			}
			acl = append(acl, entry)
		}
		b.SetAcl(acl)
	}
	return b.Build()
}

func clearField(b *bqmeta.DatasetBuilder, field string) error {
	switch field {
	case "description":
		b.ClearDescription()
	case "friendlyName":
		b.ClearFriendlyName()
	case "location":
		b.ClearLocation()
	case "defaultTableLifetime":
		b.ClearDefaultTableLifetime()
	default:
		return errors.InvalidArgumentf("field %q cannot be cleared", field)
	}
	return nil
}

func (a Access) acl() (bqmeta.Acl, error) {
	var entities []bqmeta.Entity
	if a.Domain != "" {
		entities = append(entities, bqmeta.Domain{Domain: a.Domain})
	}
	if a.Group != "" {
		entities = append(entities, bqmeta.Group{ID: a.Group})
	}
	if a.User != "" {
		entities = append(entities, bqmeta.User{Email: a.User})
	}
	if a.IAMMember != "" {
		entities = append(entities, bqmeta.IAMMember{Member: a.IAMMember})
	}
	if a.Special != "" {
		g, ok := specialGroups[a.Special]
		if !ok {
			return bqmeta.Acl{}, errors.InvalidArgumentf("unknown special group %q", a.Special)
		}
		entities = append(entities, g)
	}
	if a.View != "" {
		view, err := bqmeta.ParseTableID(a.View)
		if err != nil {
			return bqmeta.Acl{}, err
		}
		entities = append(entities, bqmeta.View{Table: view})
	}
	if len(entities) != 1 {
		return bqmeta.Acl{}, errors.InvalidArgumentf("access entry must name exactly one principal, got %d", len(entities))
	}

	entity := entities[0]
	if entity.Kind() == bqmeta.EntityView {
		if a.Role != "" {
			return bqmeta.Acl{}, errors.InvalidArgumentf("authorized view %v cannot have role %q", entity, a.Role)
		}
		return bqmeta.Acl{Entity: entity}, nil
	}
	role, ok := roles[strings.ToUpper(a.Role)]
	if !ok {
		return bqmeta.Acl{}, errors.InvalidArgumentf("access entry for %v has invalid role %q", entity, a.Role)
	}
	return bqmeta.NewAcl(entity, role), nil
}

func checkDuplicates(infos []*bqmeta.DatasetInfo) error {
	seen := make(map[bqmeta.DatasetID]bool, len(infos))
	for _, info := range infos {
		if seen[info.DatasetID()] {
			return errors.InvalidArgumentf("dataset %v is defined more than once", info.DatasetID())
		}
		seen[info.DatasetID()] = true
	}
	return nil
}

// Load reads and parses the given definition files concurrently. The result
// keeps the order of paths, and of the datasets within each file. A dataset
// defined in more than one file is an error.
func Load(ctx context.Context, paths ...string) ([]*bqmeta.DatasetInfo, error) {
	results := make([][]*bqmeta.DatasetInfo, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading dataset definitions %v", path)
			}
			infos, err := Parse(data)
			if err != nil {
				return errors.WithContextf(err, "parsing %v", path)
			}
			log.Debugf(ctx, "Loaded %d datasets from %v", len(infos), path)
			results[i] = infos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*bqmeta.DatasetInfo
	for _, infos := range results {
		all = append(all, infos...)
	}
	if err := checkDuplicates(all); err != nil {
		return nil, err
	}
	log.Infof(ctx, "Loaded %d datasets from %d files", len(all), len(paths))
	return all, nil
}
