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

import "fmt"

// UsageBuilder provides a fluent API for creating billing endpoint payloads
type UsageBuilder struct {
	totalCommitters     int
	totalCount          int
	maximumCommitters   int
	purchasedCommitters int
	repositories        []map[string]interface{}
	nullRepositories    bool
}

// NewUsageBuilder creates a new usage builder with zero totals
func NewUsageBuilder() *UsageBuilder {
	return &UsageBuilder{
		repositories: []map[string]interface{}{},
	}
}

// WithTotals sets the four summary fields
func (b *UsageBuilder) WithTotals(totalCommitters, totalCount, maximum, purchased int) *UsageBuilder {
	b.totalCommitters = totalCommitters
	b.totalCount = totalCount
	b.maximumCommitters = maximum
	b.purchasedCommitters = purchased
	return b
}

// WithRepository adds a repository whose breakdown lists the given logins
func (b *UsageBuilder) WithRepository(name string, logins ...string) *UsageBuilder {
	breakdown := make([]map[string]interface{}, 0, len(logins))
	for _, login := range logins {
		breakdown = append(breakdown, map[string]interface{}{
			"user_login":        login,
			"last_pushed_date":  "2023-01-01",
			"last_pushed_email": login + "@example.com",
		})
	}

	b.repositories = append(b.repositories, map[string]interface{}{
		"name":                                   name,
		"advanced_security_committers":           len(logins),
		"advanced_security_committers_breakdown": breakdown,
	})
	return b
}

// WithNullRepositories makes the payload carry "repositories": null
func (b *UsageBuilder) WithNullRepositories() *UsageBuilder {
	b.nullRepositories = true
	return b
}

// Build returns the payload as a JSON-ready map
func (b *UsageBuilder) Build() map[string]interface{} {
	var repos interface{} = b.repositories
	if b.nullRepositories {
		repos = nil
	}
	return map[string]interface{}{
		"total_advanced_security_committers":     b.totalCommitters,
		"total_count":                            b.totalCount,
		"maximum_advanced_security_committers":   b.maximumCommitters,
		"purchased_advanced_security_committers": b.purchasedCommitters,
		"repositories":                           repos,
	}
}

// GenerateUsagePages creates pageCount pages of perPage repositories each,
// spread round-robin over orgs. Repository i is pushed to by "user{i}" and
// by "shared". Every page but the last advertises a next page.
func GenerateUsagePages(orgs []string, pageCount, perPage int) []PageResponse {
	total := pageCount * perPage
	pages := make([]PageResponse, 0, pageCount)

	n := 0
	for p := 1; p <= pageCount; p++ {
		b := NewUsageBuilder().WithTotals(total+1, total, 1000, 1000)
		for i := 0; i < perPage; i++ {
			org := orgs[n%len(orgs)]
			b.WithRepository(fmt.Sprintf("%s/repo%d", org, n), fmt.Sprintf("user%d", n), "shared")
			n++
		}
		pages = append(pages, PageResponse{
			Body: b.Build(),
			Next: p < pageCount,
		})
	}
	return pages
}
