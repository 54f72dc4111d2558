// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package committers

import (
	"sort"
	"strings"

	"github.com/sirseerhq/sirseer-ghas/internal/github"
)

// Set is a set of user logins.
type Set map[string]struct{}

// NewSet returns a set holding the given logins.
func NewSet(logins ...string) Set {
	s := make(Set, len(logins))
	for _, login := range logins {
		s.Add(login)
	}
	return s
}

// Add inserts login. Adding a login twice is a no-op.
func (s Set) Add(login string) {
	s[login] = struct{}{}
}

// Has reports whether login is in the set.
func (s Set) Has(login string) bool {
	_, ok := s[login]
	return ok
}

// Len returns the number of distinct logins.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the logins in ascending order.
func (s Set) Sorted() []string {
	logins := make([]string, 0, len(s))
	for login := range s {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins
}

// OrgCommitters maps an organization login to its unique committers.
type OrgCommitters map[string]Set

// Organizations returns the organization names in ascending order.
func (o OrgCommitters) Organizations() []string {
	orgs := make([]string, 0, len(o))
	for org := range o {
		orgs = append(orgs, org)
	}
	sort.Strings(orgs)
	return orgs
}

// Get returns the committers of org, or nil if org is unknown.
func (o OrgCommitters) Get(org string) Set {
	return o[org]
}

// Committers returns the distinct logins across every organization.
func (o OrgCommitters) Committers() Set {
	all := make(Set)
	for _, set := range o {
		for login := range set {
			all.Add(login)
		}
	}
	return all
}

// OrganizationOf returns the organization part of a full repository name.
// A name without a slash is its own organization.
func OrganizationOf(repository string) string {
	org, _, _ := strings.Cut(repository, "/")
	return org
}

// Aggregate groups the committers of usage by organization. It never fails
// and does not modify usage. A nil usage yields an empty map.
func Aggregate(usage *github.AdvancedSecurityUsage) OrgCommitters {
	result := make(OrgCommitters)
	if usage == nil {
		return result
	}

	for _, repo := range usage.Repositories {
		org := OrganizationOf(repo.Name)
		set, ok := result[org]
		if !ok {
			set = make(Set)
			result[org] = set
		}
		for _, c := range repo.AdvancedSecurityCommittersBreakdown {
			set.Add(c.UserLogin)
		}
	}

	return result
}
