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

	"github.com/apache/beam/bqmeta/internal/errors"
	bq "google.golang.org/api/bigquery/v2"
)

// Role is the access granted by an access control entry. View entries carry
// no role.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleReader Role = "READER"
	RoleWriter Role = "WRITER"
)

// EntityKind is the kind of principal an access control entry grants
// access to.
type EntityKind int

const (
	EntityDomain EntityKind = iota + 1
	EntityGroup
	EntityUser
	EntityIAMMember
	EntityView
)

// String returns the transport name of the kind, such as "DOMAIN".
func (k EntityKind) String() string {
	switch k {
	case EntityDomain:
		return "DOMAIN"
	case EntityGroup:
		return "GROUP"
	case EntityUser:
		return "USER"
	case EntityIAMMember:
		return "IAM_MEMBER"
	case EntityView:
		return "VIEW"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// Entity is the principal of an access control entry. It is implemented by
// Domain, Group, User, IAMMember and View.
type Entity interface {
	Kind() EntityKind
	String() string

	fill(a *bq.DatasetAccess)
}

// Domain grants access to everyone signed in with an account of the domain.
type Domain struct {
	Domain string
}

// Kind returns EntityDomain.
func (e Domain) Kind() EntityKind { return EntityDomain }

// String returns the entity as "domain:<domain>".
func (e Domain) String() string { return "domain:" + e.Domain }

func (e Domain) fill(a *bq.DatasetAccess) { a.Domain = e.Domain }

// Special group identifiers understood by BigQuery.
const (
	specialProjectOwners         = "projectOwners"
	specialProjectReaders        = "projectReaders"
	specialProjectWriters        = "projectWriters"
	specialAllAuthenticatedUsers = "allAuthenticatedUsers"
)

// Group grants access to a Google group, or to one of the special groups
// returned by ProjectOwners, ProjectReaders, ProjectWriters and
// AllAuthenticatedUsers.
type Group struct {
	// ID is the group email, or a special group identifier.
	ID string
}

// ProjectOwners is the group of owners of the dataset's project.
func ProjectOwners() Group { return Group{ID: specialProjectOwners} }

// ProjectReaders is the group of readers of the dataset's project.
func ProjectReaders() Group { return Group{ID: specialProjectReaders} }

// ProjectWriters is the group of writers of the dataset's project.
func ProjectWriters() Group { return Group{ID: specialProjectWriters} }

// AllAuthenticatedUsers is every authenticated Google account.
func AllAuthenticatedUsers() Group { return Group{ID: specialAllAuthenticatedUsers} }

// IsSpecial reports whether g is a special group rather than a group email.
func (e Group) IsSpecial() bool {
	switch e.ID {
	case specialProjectOwners, specialProjectReaders, specialProjectWriters, specialAllAuthenticatedUsers:
		return true
	}
	return false
}

// Kind returns EntityGroup.
func (e Group) Kind() EntityKind { return EntityGroup }

// String returns the entity as "group:<id>".
func (e Group) String() string { return "group:" + e.ID }

func (e Group) fill(a *bq.DatasetAccess) {
	if e.IsSpecial() {
		a.SpecialGroup = e.ID
	} else {
		a.GroupByEmail = e.ID
	}
}

// User grants access to a single Google account.
type User struct {
	Email string
}

// Kind returns EntityUser.
func (e User) Kind() EntityKind { return EntityUser }

// String returns the entity as "user:<email>".
func (e User) String() string { return "user:" + e.Email }

func (e User) fill(a *bq.DatasetAccess) { a.UserByEmail = e.Email }

// IAMMember grants access to an IAM principal, such as
// "serviceAccount:runner@p.iam.gserviceaccount.com".
type IAMMember struct {
	Member string
}

// Kind returns EntityIAMMember.
func (e IAMMember) Kind() EntityKind { return EntityIAMMember }

// String returns the entity as "iamMember:<member>".
func (e IAMMember) String() string { return "iamMember:" + e.Member }

func (e IAMMember) fill(a *bq.DatasetAccess) { a.IamMember = e.Member }

// View authorizes a view in another dataset to read the tables of this
// dataset. Its table may be unscoped until the dataset is adopted into a
// project.
type View struct {
	Table TableID
}

// Kind returns EntityView.
func (e View) Kind() EntityKind { return EntityView }

// String returns the entity as "view:<table>".
func (e View) String() string { return "view:" + e.Table.String() }

func (e View) fill(a *bq.DatasetAccess) { a.View = e.Table.ToBQ() }

// Acl is an access control entry of a dataset.
type Acl struct {
	Entity Entity
	Role   Role
}

// NewAcl grants role to entity.
func NewAcl(entity Entity, role Role) Acl {
	return Acl{Entity: entity, Role: role}
}

// NewViewAcl authorizes the given view.
func NewViewAcl(view TableID) Acl {
	return Acl{Entity: View{Table: view}}
}

// IsView reports whether the entry authorizes a view.
func (a Acl) IsView() bool {
	_, ok := a.Entity.(View)
	return ok
}

// String returns the entry for diagnostics, such as
// "Acl{user:ana@example.com, role=READER}".
func (a Acl) String() string {
	if a.Role == "" {
		return fmt.Sprintf("Acl{%v}", a.Entity)
	}
	return fmt.Sprintf("Acl{%v, role=%v}", a.Entity, a.Role)
}

// ToBQ returns the transport form of a.
func (a Acl) ToBQ() *bq.DatasetAccess {
	access := &bq.DatasetAccess{Role: string(a.Role)}
	if a.Entity != nil {
		a.Entity.fill(access)
	}
	return access
}

// AclFromBQ converts a transport access entry. It accepts anything Acl.ToBQ
// produces: an entry without a principal comes back with a nil Entity, and an
// authorized view keeps whatever parts of its table it names. Entries granting
// access to a principal this package does not model, such as a routine or a
// dataset, are rejected with InvalidArgument.
func AclFromBQ(access *bq.DatasetAccess) (Acl, error) {
	if access == nil {
		return Acl{}, errors.InvalidArgumentf("nil access entry")
	}
	var entity Entity
	switch {
	case access.Domain != "":
		entity = Domain{Domain: access.Domain}
	case access.GroupByEmail != "":
		entity = Group{ID: access.GroupByEmail}
	case access.SpecialGroup != "":
		entity = Group{ID: access.SpecialGroup}
	case access.UserByEmail != "":
		entity = User{Email: access.UserByEmail}
	case access.IamMember != "":
		entity = IAMMember{Member: access.IamMember}
	case access.View != nil:
		entity = View{Table: TableIDFromBQ(access.View)}
	case access.Routine != nil:
		return Acl{}, errors.InvalidArgumentf("unsupported access entry for routine %v.%v", access.Routine.DatasetId, access.Routine.RoutineId)
	case access.Dataset != nil:
		return Acl{}, errors.InvalidArgumentf("unsupported access entry for another dataset")
	}
	return Acl{Entity: entity, Role: Role(access.Role)}, nil
}
