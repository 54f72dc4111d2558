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

package testutil

import (
	"encoding/json"
	"sort"
	"testing"
)

// ReportOrganization mirrors one organizationStats entry of the report.
type ReportOrganization struct {
	Organization     string   `json:"organization"`
	UniqueCommitters int      `json:"uniqueCommitters"`
	Committers       []string `json:"committers"`
}

// ReportDocument mirrors the JSON report written by the CLI.
type ReportDocument struct {
	Enterprise *struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"enterprise"`
	EnterpriseStats struct {
		TotalAdvancedSecurityCommitters     int `json:"totalAdvancedSecurityCommitters"`
		TotalCount                          int `json:"totalCount"`
		MaximumAdvancedSecurityCommitters   int `json:"maximumAdvancedSecurityCommitters"`
		PurchasedAdvancedSecurityCommitters int `json:"purchasedAdvancedSecurityCommitters"`
		TotalOrganizations                  int `json:"totalOrganizations"`
	} `json:"enterpriseStats"`
	OrganizationStats []ReportOrganization `json:"organizationStats"`
}

// ParseReport decodes a JSON report, failing the test on invalid JSON
func ParseReport(t *testing.T, data []byte) ReportDocument {
	t.Helper()

	var doc ReportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Invalid report JSON: %v\n%s", err, data)
	}
	return doc
}

// AssertOrganization checks that org is present with exactly the given committers
func AssertOrganization(t *testing.T, doc ReportDocument, org string, committers ...string) {
	t.Helper()

	for _, o := range doc.OrganizationStats {
		if o.Organization != org {
			continue
		}
		if o.UniqueCommitters != len(committers) {
			t.Errorf("Organization %s: uniqueCommitters = %d, want %d", org, o.UniqueCommitters, len(committers))
		}

		got := append([]string(nil), o.Committers...)
		want := append([]string(nil), committers...)
		sort.Strings(got)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Errorf("Organization %s: committers = %v, want %v", org, got, want)
			return
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("Organization %s: committers = %v, want %v", org, got, want)
				return
			}
		}
		return
	}
	t.Errorf("Organization %s not found in report", org)
}
