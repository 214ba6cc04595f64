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
	"fmt"
	"strings"

	"github.com/apache/beam/bqmeta/internal/errors"
	bq "google.golang.org/api/bigquery/v2"
)

// DatasetID identifies a dataset. Project may be empty, in which case the
// dataset is unscoped until it is adopted into a project; see
// DatasetInfo.WithProjectID.
type DatasetID struct {
	// Project is the Google Cloud project ID.
	Project string `json:"project,omitempty"`
	// Dataset is the dataset ID within the project.
	Dataset string `json:"dataset"`
}

// NewDatasetID returns the identity of dataset in project.
func NewDatasetID(project, dataset string) DatasetID {
	return DatasetID{Project: project, Dataset: dataset}
}

// ParseDatasetID parses "<project>:<dataset>" or "<dataset>" into a
// DatasetID. The project may itself contain a colon, as in
// "example.com:project:dataset".
func ParseDatasetID(s string) (DatasetID, error) {
	var id DatasetID
	if c := strings.LastIndex(s, ":"); c != -1 {
		id.Project = s[:c]
		if strings.TrimSpace(id.Project) == "" {
			return DatasetID{}, errors.InvalidArgumentf("dataset name has empty project: %v", s)
		}
		s = s[c+1:]
	}
	id.Dataset = s
	if err := id.Valid(); err != nil {
		return DatasetID{}, err
	}
	return id, nil
}

// Valid returns an InvalidArgument error if the dataset name is missing.
func (id DatasetID) Valid() error {
	if strings.TrimSpace(id.Dataset) == "" {
		return errors.InvalidArgumentf("dataset identity %q has no dataset name", id.String())
	}
	return nil
}

// WithProject returns a copy of id scoped to project.
func (id DatasetID) WithProject(project string) DatasetID {
	id.Project = project
	return id
}

// Table returns the identity of the named table in this dataset.
func (id DatasetID) Table(table string) TableID {
	return TableID{Project: id.Project, Dataset: id.Dataset, Table: table}
}

// String formats the identity as "<project>:<dataset>", or "<dataset>" when
// the project is unset.
func (id DatasetID) String() string {
	if id.Project == "" {
		return id.Dataset
	}
	return fmt.Sprintf("%v:%v", id.Project, id.Dataset)
}

// ToBQ returns the transport form of id.
func (id DatasetID) ToBQ() *bq.DatasetReference {
	return &bq.DatasetReference{ProjectId: id.Project, DatasetId: id.Dataset}
}

// DatasetIDFromBQ converts a transport dataset reference. A nil reference
// yields the zero DatasetID, which is not Valid.
func DatasetIDFromBQ(ref *bq.DatasetReference) DatasetID {
	if ref == nil {
		return DatasetID{}
	}
	return DatasetID{Project: ref.ProjectId, Dataset: ref.DatasetId}
}

// TableID identifies a table or view. Project may be empty, meaning the
// table lives in whichever project the referencing dataset ends up in.
type TableID struct {
	// Project is the Google Cloud project ID.
	Project string `json:"project,omitempty"`
	// Dataset is the dataset ID within the project.
	Dataset string `json:"dataset"`
	// Table is the table ID within the dataset.
	Table string `json:"table"`
}

// NewTableID returns the identity of table in project and dataset.
func NewTableID(project, dataset, table string) TableID {
	return TableID{Project: project, Dataset: dataset, Table: table}
}

// ParseTableID parses "<project>:<dataset>.<table>" or "<dataset>.<table>"
// into a TableID.
func ParseTableID(s string) (TableID, error) {
	d := strings.LastIndex(s, ".")
	if d == -1 {
		return TableID{}, errors.InvalidArgumentf("table name missing components: %v", s)
	}
	ds, err := ParseDatasetID(s[:d])
	if err != nil {
		return TableID{}, errors.WithContextf(err, "parsing table name %v", s)
	}
	id := ds.Table(s[d+1:])
	if err := id.Valid(); err != nil {
		return TableID{}, err
	}
	return id, nil
}

// Valid returns an InvalidArgument error if the dataset or table name is
// missing.
func (id TableID) Valid() error {
	if strings.TrimSpace(id.Dataset) == "" || strings.TrimSpace(id.Table) == "" {
		return errors.InvalidArgumentf("table identity %q has empty components", id.String())
	}
	return nil
}

// DatasetID returns the identity of the dataset holding the table.
func (id TableID) DatasetID() DatasetID {
	return DatasetID{Project: id.Project, Dataset: id.Dataset}
}

// WithProject returns a copy of id scoped to project.
func (id TableID) WithProject(project string) TableID {
	id.Project = project
	return id
}

// String formats the identity as "<project>:<dataset>.<table>", omitting the
// project when unset.
func (id TableID) String() string {
	return fmt.Sprintf("%v.%v", id.DatasetID(), id.Table)
}

// ToBQ returns the transport form of id.
func (id TableID) ToBQ() *bq.TableReference {
	return &bq.TableReference{ProjectId: id.Project, DatasetId: id.Dataset, TableId: id.Table}
}

// TableIDFromBQ converts a transport table reference. A nil reference yields
// the zero TableID, which is not Valid.
func TableIDFromBQ(ref *bq.TableReference) TableID {
	if ref == nil {
		return TableID{}
	}
	return TableID{Project: ref.ProjectId, Dataset: ref.DatasetId, Table: ref.TableId}
}
