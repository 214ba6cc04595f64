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
	"strings"
	"testing"
	"time"

	"github.com/apache/beam/bqmeta/internal/errors"
	"github.com/google/go-cmp/cmp"
	bq "google.golang.org/api/bigquery/v2"
)

var (
	testAcl = []Acl{
		NewAcl(ProjectOwners(), RoleOwner),
		NewAcl(Group{ID: "analysts@example.com"}, RoleReader),
		NewAcl(User{Email: "writer@example.com"}, RoleWriter),
		NewAcl(Domain{Domain: "example.com"}, RoleReader),
		NewAcl(IAMMember{Member: "serviceAccount:sa@p.iam.gserviceaccount.com"}, RoleReader),
		NewViewAcl(NewTableID("", "reports", "v_daily")),
	}
	created  = time.UnixMilli(1445900000123).UTC()
	modified = time.UnixMilli(1445900100456).UTC()
)

func mustBuild(t *testing.T, b *DatasetBuilder) *DatasetInfo {
	t.Helper()
	info, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return info
}

func newBuilder(t *testing.T, project, dataset string) *DatasetBuilder {
	t.Helper()
	b, err := NewDatasetBuilder(NewDatasetID(project, dataset))
	if err != nil {
		t.Fatalf("NewDatasetBuilder(%v, %v) failed: %v", project, dataset, err)
	}
	return b
}

// fullDataset returns a dataset with every attribute set, including the
// server-assigned ones.
func fullDataset(t *testing.T) *DatasetInfo {
	t.Helper()
	b := newBuilder(t, "p0", "d0").
		SetAcl(testAcl).
		SetDefaultTableLifetime(90 * 24 * time.Hour).
		SetDescription("daily exports").
		SetFriendlyName("Exports").
		SetLocation("EU")
	b.setCreationTime(FieldOf(created)).
		setEtag(FieldOf("etag-1")).
		setID(FieldOf("p0:d0")).
		setLastModified(FieldOf(modified)).
		setSelfLink(FieldOf("https://bigquery.googleapis.com/bigquery/v2/projects/p0/datasets/d0"))
	return mustBuild(t, b)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		info func(t *testing.T) *DatasetInfo
		// The transport form cannot tell an empty principal from none, so
		// such entries come back equal but print differently.
		equalOnly bool
	}{
		{"identity only", func(t *testing.T) *DatasetInfo { return mustBuild(t, newBuilder(t, "", "d1")) }, false},
		{"full", fullDataset, false},
		{"cleared", func(t *testing.T) *DatasetInfo {
			return mustBuild(t, newBuilder(t, "p1", "d1").
				ClearDescription().ClearFriendlyName().ClearLocation().ClearDefaultTableLifetime())
		}, false},
		{"zero values", func(t *testing.T) *DatasetInfo {
			return mustBuild(t, newBuilder(t, "p1", "d1").SetDescription("").SetFriendlyName(""))
		}, false},
		{"empty acl", func(t *testing.T) *DatasetInfo {
			return mustBuild(t, newBuilder(t, "p1", "d1").SetAcl([]Acl{}))
		}, false},
		{"acl without principals", func(t *testing.T) *DatasetInfo {
			return mustBuild(t, newBuilder(t, "p1", "d1").SetAcl([]Acl{
				NewAcl(nil, RoleReader),
				NewViewAcl(TableID{}),
				NewViewAcl(NewTableID("", "reports", "")),
			}))
		}, false},
		{"acl with empty principal", func(t *testing.T) *DatasetInfo {
			return mustBuild(t, newBuilder(t, "p1", "d1").SetAcl([]Acl{NewAcl(User{}, RoleReader)}))
		}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			want := test.info(t)
			got, err := DatasetFromBQ(want.ToBQ())
			if err != nil {
				t.Fatalf("DatasetFromBQ(%v) failed: %v", want, err)
			}
			if !got.Equal(want) {
				t.Errorf("DatasetFromBQ(ToBQ()) = %v, want %v", got, want)
			}
			if d := cmp.Diff(want.String(), got.String()); !test.equalOnly && d != "" {
				t.Errorf("String() mismatch after round trip (-want +got):\n%s", d)
			}

			data, err := want.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() failed: %v", err)
			}
			fromJSON, err := UnmarshalDatasetJSON(data)
			if err != nil {
				t.Fatalf("UnmarshalDatasetJSON(%s) failed: %v", data, err)
			}
			if !fromJSON.Equal(want) {
				t.Errorf("UnmarshalDatasetJSON(%s) = %v, want %v", data, fromJSON, want)
			}
		})
	}
}

func TestToBuilderFidelity(t *testing.T) {
	want := fullDataset(t)
	got := mustBuild(t, want.ToBuilder())
	if !got.Equal(want) {
		t.Errorf("ToBuilder().Build() = %v, want %v", got, want)
	}
	if got == want {
		t.Error("ToBuilder().Build() returned the original pointer, want a new value")
	}
}

func TestToBuilderDoesNotMutateOriginal(t *testing.T) {
	orig := fullDataset(t)
	before := orig.String()
	updated := mustBuild(t, orig.ToBuilder().SetDescription("changed").SetAcl(nil))
	if orig.String() != before {
		t.Errorf("original changed to %v, want %v", orig, before)
	}
	if got := updated.Description().Value(); got != "changed" {
		t.Errorf("updated description = %q, want %q", got, "changed")
	}
	if updated.Acl() != nil {
		t.Errorf("updated acl = %v, want nil", updated.Acl())
	}
}

func TestClearVersusUnset(t *testing.T) {
	untouched := mustBuild(t, newBuilder(t, "p1", "d1"))
	cleared := mustBuild(t, untouched.ToBuilder().ClearDescription())

	if !untouched.Description().IsUnset() {
		t.Errorf("untouched description = %v, want unset", untouched.Description())
	}
	if !cleared.Description().IsCleared() {
		t.Errorf("cleared description = %v, want cleared", cleared.Description())
	}
	if untouched.Equal(cleared) {
		t.Errorf("%v equals %v, want a cleared field to differ from an unset one", untouched, cleared)
	}
	if d := cmp.Diff([]string{"Description"}, cleared.ToBQ().NullFields); d != "" {
		t.Errorf("NullFields mismatch (-want +got):\n%s", d)
	}
	if got := untouched.ToBQ().NullFields; got != nil {
		t.Errorf("untouched NullFields = %v, want nil", got)
	}

	data, err := cleared.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() failed: %v", err)
	}
	if !strings.Contains(string(data), `"description":null`) {
		t.Errorf("MarshalJSON() = %s, want an explicit null description", data)
	}
}

func TestSetAclCopiesInput(t *testing.T) {
	acl := []Acl{NewAcl(User{Email: "a@example.com"}, RoleReader)}
	info := mustBuild(t, newBuilder(t, "p1", "d1").SetAcl(acl))

	acl[0] = NewAcl(User{Email: "mallory@example.com"}, RoleOwner)
	acl = append(acl, NewAcl(ProjectOwners(), RoleOwner))

	want := []Acl{NewAcl(User{Email: "a@example.com"}, RoleReader)}
	if d := cmp.Diff(want, info.Acl()); d != "" {
		t.Errorf("Acl() changed with the caller's slice (-want +got):\n%s", d)
	}

	// Nor can the accessor's result be used to change the value.
	got := info.Acl()
	got[0] = NewAcl(Domain{Domain: "evil.com"}, RoleOwner)
	if d := cmp.Diff(want, info.Acl()); d != "" {
		t.Errorf("Acl() changed through its result (-want +got):\n%s", d)
	}
}

func TestNilAndEmptyAcl(t *testing.T) {
	unset := mustBuild(t, newBuilder(t, "p1", "d1").SetAcl(nil))
	empty := mustBuild(t, newBuilder(t, "p1", "d1").SetAcl([]Acl{}))

	if unset.Acl() != nil {
		t.Errorf("Acl() = %v, want nil", unset.Acl())
	}
	if got := unset.ToBQ().Access; got != nil {
		t.Errorf("ToBQ().Access = %v, want nil", got)
	}
	if got := empty.Acl(); got == nil || len(got) != 0 {
		t.Errorf("Acl() = %#v, want an empty non-nil slice", got)
	}
	ds := empty.ToBQ()
	if ds.Access == nil || len(ds.Access) != 0 {
		t.Errorf("ToBQ().Access = %#v, want an empty non-nil slice", ds.Access)
	}
	if d := cmp.Diff([]string{"Access"}, ds.ForceSendFields); d != "" {
		t.Errorf("ForceSendFields mismatch (-want +got):\n%s", d)
	}
	if unset.Equal(empty) {
		t.Error("unset acl equals empty acl")
	}
}

func TestWithProjectID(t *testing.T) {
	scopedView := NewTableID("p9", "shared", "v_scoped")
	info := mustBuild(t, newBuilder(t, "", "d1").SetAcl([]Acl{
		NewAcl(Group{ID: "team@example.com"}, RoleReader),
		NewViewAcl(NewTableID("", "d2", "t1")),
		NewViewAcl(scopedView),
		NewAcl(ProjectOwners(), RoleOwner),
	}).SetDescription("kept"))

	got := info.WithProjectID("p1")

	if want := NewDatasetID("p1", "d1"); got.DatasetID() != want {
		t.Errorf("DatasetID() = %v, want %v", got.DatasetID(), want)
	}
	want := []Acl{
		NewAcl(Group{ID: "team@example.com"}, RoleReader),
		NewViewAcl(NewTableID("p1", "d2", "t1")),
		NewViewAcl(scopedView),
		NewAcl(ProjectOwners(), RoleOwner),
	}
	if d := cmp.Diff(want, got.Acl()); d != "" {
		t.Errorf("Acl() mismatch (-want +got):\n%s", d)
	}
	if got.Description().Value() != "kept" {
		t.Errorf("Description() = %v, want kept", got.Description())
	}

	// The original is untouched.
	if info.DatasetID().Project != "" {
		t.Errorf("original DatasetID() = %v, want unscoped", info.DatasetID())
	}
	if v := info.Acl()[1].Entity.(View); v.Table.Project != "" {
		t.Errorf("original view = %v, want unscoped", v)
	}
}

func TestWithProjectIDWithoutAcl(t *testing.T) {
	info := mustBuild(t, newBuilder(t, "", "d1"))
	got := info.WithProjectID("p1")
	if got.Acl() != nil {
		t.Errorf("Acl() = %v, want nil", got.Acl())
	}
	if want := NewDatasetID("p1", "d1"); got.DatasetID() != want {
		t.Errorf("DatasetID() = %v, want %v", got.DatasetID(), want)
	}
}

func TestWithProjectIDKeepsViewRole(t *testing.T) {
	ds := &bq.Dataset{
		DatasetReference: &bq.DatasetReference{DatasetId: "d1"},
		Access: []*bq.DatasetAccess{
			{Role: "READER", View: &bq.TableReference{DatasetId: "reports", TableId: "v"}},
		},
	}
	info, err := DatasetFromBQ(ds)
	if err != nil {
		t.Fatalf("DatasetFromBQ() failed: %v", err)
	}
	want := Acl{Entity: View{Table: NewTableID("p1", "reports", "v")}, Role: RoleReader}
	if got := info.WithProjectID("p1").Acl(); len(got) != 1 || got[0] != want {
		t.Errorf("WithProjectID().Acl() = %v, want [%v]", got, want)
	}
}

func TestIdentityRequired(t *testing.T) {
	if _, err := (&DatasetBuilder{}).Build(); !errors.IsInvalidArgument(err) {
		t.Errorf("Build() without identity = %v, want InvalidArgument", err)
	}
	if _, err := NewDatasetBuilder(DatasetID{}); !errors.IsInvalidArgument(err) {
		t.Errorf("NewDatasetBuilder(zero) = %v, want InvalidArgument", err)
	}
	b := newBuilder(t, "p1", "d1")
	if err := b.SetDatasetID(NewDatasetID("p1", " ")); !errors.IsInvalidArgument(err) {
		t.Errorf("SetDatasetID(blank) = %v, want InvalidArgument", err)
	}
	// The rejected identity did not replace the previous one.
	if info := mustBuild(t, b); info.DatasetID() != NewDatasetID("p1", "d1") {
		t.Errorf("DatasetID() = %v, want p1:d1", info.DatasetID())
	}
	if _, err := DatasetFromBQ(&bq.Dataset{Description: "no reference"}); !errors.IsInvalidArgument(err) {
		t.Errorf("DatasetFromBQ(no reference) = %v, want InvalidArgument", err)
	}
	if _, err := DatasetFromBQ(nil); !errors.IsInvalidArgument(err) {
		t.Errorf("DatasetFromBQ(nil) = %v, want InvalidArgument", err)
	}
}

func TestEqual(t *testing.T) {
	a := fullDataset(t)
	b := fullDataset(t)
	other := mustBuild(t, a.ToBuilder().SetLocation("US"))
	var nilInfo *DatasetInfo

	tests := []struct {
		name string
		x, y *DatasetInfo
		want bool
	}{
		{"same value", a, a, true},
		{"equal values", a, b, true},
		{"different location", a, other, false},
		{"nil argument", a, nil, false},
		{"nil receiver", nilInfo, a, false},
		{"both nil", nilInfo, nil, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.x.Equal(test.y); got != test.want {
				t.Errorf("Equal() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestHashDependsOnIdentityOnly(t *testing.T) {
	a := fullDataset(t)
	b := mustBuild(t, a.ToBuilder().SetDescription("other").SetAcl(nil))
	if a.Equal(b) {
		t.Fatalf("%v equals %v, want different values", a, b)
	}
	if a.Hash() != b.Hash() {
		t.Errorf("Hash() differs for the same identity: %x != %x", a.Hash(), b.Hash())
	}
	moved := a.WithProjectID("elsewhere")
	if a.Hash() == moved.Hash() {
		t.Errorf("Hash() is the same for %v and %v", a.DatasetID(), moved.DatasetID())
	}
}

func TestString(t *testing.T) {
	info := mustBuild(t, newBuilder(t, "p1", "d1").
		SetDescription("desc").
		ClearLocation().
		SetDefaultTableLifetime(time.Hour).
		SetAcl([]Acl{NewAcl(User{Email: "u@example.com"}, RoleReader), NewViewAcl(NewTableID("p2", "d2", "v"))}))
	want := "DatasetInfo{datasetId=p1:d1, creationTime=null, defaultTableLifetime=1h0m0s, " +
		"description=desc, etag=null, friendlyName=null, id=null, lastModified=null, " +
		"location=<cleared>, selfLink=null, " +
		"acl=[Acl{user:u@example.com, role=READER} Acl{view:p2:d2.v}]}"
	if d := cmp.Diff(want, info.String()); d != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", d)
	}

	full := fullDataset(t).String()
	for _, want := range []string{"creationTime=1445900000123", "lastModified=1445900100456", "etag=etag-1"} {
		if !strings.Contains(full, want) {
			t.Errorf("String() = %v, want it to contain %v", full, want)
		}
	}
}

func TestToBQ(t *testing.T) {
	info := fullDataset(t)
	got := info.ToBQ()
	want := &bq.Dataset{
		DatasetReference:         &bq.DatasetReference{ProjectId: "p0", DatasetId: "d0"},
		CreationTime:             1445900000123,
		DefaultTableExpirationMs: 90 * 24 * 3600 * 1000,
		Description:              "daily exports",
		Etag:                     "etag-1",
		FriendlyName:             "Exports",
		Id:                       "p0:d0",
		LastModifiedTime:         1445900100456,
		Location:                 "EU",
		SelfLink:                 "https://bigquery.googleapis.com/bigquery/v2/projects/p0/datasets/d0",
		Access: []*bq.DatasetAccess{
			{Role: "OWNER", SpecialGroup: "projectOwners"},
			{Role: "READER", GroupByEmail: "analysts@example.com"},
			{Role: "WRITER", UserByEmail: "writer@example.com"},
			{Role: "READER", Domain: "example.com"},
			{Role: "READER", IamMember: "serviceAccount:sa@p.iam.gserviceaccount.com"},
			{View: &bq.TableReference{DatasetId: "reports", TableId: "v_daily"}},
		},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("ToBQ() mismatch (-want +got):\n%s", d)
	}

	// The result is a fresh object.
	got.Description = "mutated"
	if info.Description().Value() != "daily exports" {
		t.Errorf("mutating ToBQ() result changed the value: %v", info.Description())
	}
}

func TestDatasetFromBQUnrecognizedAccess(t *testing.T) {
	ds := &bq.Dataset{
		DatasetReference: &bq.DatasetReference{ProjectId: "p1", DatasetId: "d1"},
		Access:           []*bq.DatasetAccess{{Role: "READER", Routine: &bq.RoutineReference{ProjectId: "p1", DatasetId: "d1", RoutineId: "f"}}},
	}
	_, err := DatasetFromBQ(ds)
	if !errors.IsInvalidArgument(err) {
		t.Errorf("DatasetFromBQ() = %v, want InvalidArgument", err)
	}
}

func TestDefaultTableLifetimeTruncatesToMillis(t *testing.T) {
	info := mustBuild(t, newBuilder(t, "p1", "d1").SetDefaultTableLifetime(time.Hour+1500*time.Microsecond))
	if got, want := info.DefaultTableLifetime().Value(), time.Hour+time.Millisecond; got != want {
		t.Errorf("DefaultTableLifetime() = %v, want %v", got, want)
	}
}
