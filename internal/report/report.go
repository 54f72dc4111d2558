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

// Package report builds the enterprise billing report rendered by the CLI.
package report

import (
	"github.com/sirseerhq/sirseer-ghas/internal/committers"
	"github.com/sirseerhq/sirseer-ghas/internal/github"
	"github.com/sirseerhq/sirseer-ghas/internal/output"
)

// Report is the document written for one enterprise.
type Report struct {
	Enterprise        *github.EnterpriseInfo `json:"enterprise,omitempty"`
	EnterpriseStats   EnterpriseStats        `json:"enterpriseStats"`
	OrganizationStats []OrganizationStat     `json:"organizationStats"`
}

// EnterpriseStats carries the billing summary of the final page plus the
// number of organizations seen.
type EnterpriseStats struct {
	TotalAdvancedSecurityCommitters     int `json:"totalAdvancedSecurityCommitters"`
	TotalCount                          int `json:"totalCount"`
	MaximumAdvancedSecurityCommitters   int `json:"maximumAdvancedSecurityCommitters"`
	PurchasedAdvancedSecurityCommitters int `json:"purchasedAdvancedSecurityCommitters"`
	TotalOrganizations                  int `json:"totalOrganizations"`
}

// OrganizationStat lists the unique committers of one organization.
type OrganizationStat struct {
	Organization     string   `json:"organization"`
	UniqueCommitters int      `json:"uniqueCommitters"`
	Committers       []string `json:"committers"`
}

// Build assembles a report. Organizations and their committers are sorted.
// info may be nil.
func Build(usage *github.AdvancedSecurityUsage, orgs committers.OrgCommitters, info *github.EnterpriseInfo) *Report {
	r := &Report{
		Enterprise:        info,
		OrganizationStats: make([]OrganizationStat, 0, len(orgs)),
	}

	if usage != nil {
		r.EnterpriseStats = EnterpriseStats{
			TotalAdvancedSecurityCommitters:     usage.TotalAdvancedSecurityCommitters,
			TotalCount:                          usage.TotalCount,
			MaximumAdvancedSecurityCommitters:   usage.MaximumAdvancedSecurityCommitters,
			PurchasedAdvancedSecurityCommitters: usage.PurchasedAdvancedSecurityCommitters,
		}
	}
	r.EnterpriseStats.TotalOrganizations = len(orgs)

	for _, org := range orgs.Organizations() {
		set := orgs.Get(org)
		r.OrganizationStats = append(r.OrganizationStats, OrganizationStat{
			Organization:     org,
			UniqueCommitters: set.Len(),
			Committers:       set.Sorted(),
		})
	}

	return r
}

// Records returns one value per organization, for line-oriented output.
func (r *Report) Records() []interface{} {
	records := make([]interface{}, len(r.OrganizationStats))
	for i, stat := range r.OrganizationStats {
		records[i] = stat
	}
	return records
}

// Sheets renders the report as Summary, Organizations and Committers tables.
func (r *Report) Sheets() []output.Sheet {
	s := r.EnterpriseStats
	summary := output.Sheet{
		Name:   "Summary",
		Header: []string{"Metric", "Value"},
		Rows: [][]interface{}{
			{"Total Advanced Security Committers", s.TotalAdvancedSecurityCommitters},
			{"Total Repositories", s.TotalCount},
			{"Maximum Advanced Security Committers", s.MaximumAdvancedSecurityCommitters},
			{"Purchased Advanced Security Committers", s.PurchasedAdvancedSecurityCommitters},
			{"Total Organizations", s.TotalOrganizations},
		},
	}
	if r.Enterprise != nil {
		summary.Rows = append([][]interface{}{
			{"Enterprise", r.Enterprise.Name},
			{"Enterprise Slug", r.Enterprise.Slug},
		}, summary.Rows...)
	}

	orgs := output.Sheet{
		Name:   "Organizations",
		Header: []string{"Organization", "Unique Committers"},
	}
	people := output.Sheet{
		Name:   "Committers",
		Header: []string{"Organization", "Committer"},
	}
	for _, stat := range r.OrganizationStats {
		orgs.Rows = append(orgs.Rows, []interface{}{stat.Organization, stat.UniqueCommitters})
		for _, login := range stat.Committers {
			people.Rows = append(people.Rows, []interface{}{stat.Organization, login})
		}
	}

	return []output.Sheet{summary, orgs, people}
}
