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
	"bytes"
	"encoding/json"

	"github.com/apache/beam/bqmeta/internal/errors"
	bq "google.golang.org/api/bigquery/v2"
)

// jsonFields maps the REST JSON keys whose presence matters to the bq.Dataset
// fields they fill.
var jsonFields = []struct{ key, field string }{
	{"creationTime", fieldCreationTime},
	{"defaultTableExpirationMs", fieldDefaultTableExpirationMs},
	{"description", fieldDescription},
	{"etag", fieldEtag},
	{"friendlyName", fieldFriendlyName},
	{"id", fieldID},
	{"lastModifiedTime", fieldLastModifiedTime},
	{"location", fieldLocation},
	{"selfLink", fieldSelfLink},
}

// MarshalJSON encodes d as the REST JSON of a Datasets resource. Cleared
// attributes are encoded as null.
func (d *DatasetInfo) MarshalJSON() ([]byte, error) {
	return d.ToBQ().MarshalJSON()
}

// UnmarshalDatasetJSON decodes the REST JSON of a Datasets resource. Keys
// present with a null value come back cleared, and keys present with a zero
// value come back set, so that MarshalJSON reproduces the input.
func UnmarshalDatasetJSON(data []byte) (*DatasetInfo, error) {
	var ds bq.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, errors.SetTopLevelMsg(errors.InvalidArgumentf("%v", err), "malformed dataset JSON")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.SetTopLevelMsg(errors.InvalidArgumentf("%v", err), "malformed dataset JSON")
	}
	for _, f := range jsonFields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			ds.NullFields = append(ds.NullFields, f.field)
		} else {
			ds.ForceSendFields = append(ds.ForceSendFields, f.field)
		}
	}
	return DatasetFromBQ(&ds)
}
