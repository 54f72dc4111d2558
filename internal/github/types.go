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

// Package github provides types and interfaces for interacting with the GitHub API.
package github

// Committer is one user's most recent qualifying push to a repository.
// UserLogin identifies the committer; the other fields are informational.
type Committer struct {
	UserLogin       string `json:"user_login"`
	LastPushedDate  string `json:"last_pushed_date"`
	LastPushedEmail string `json:"last_pushed_email"`
}

// Repository is the GHAS usage of a single repository. Name is in
// "org/repo" form.
type Repository struct {
	Name                                string      `json:"name"`
	AdvancedSecurityCommitters          int         `json:"advanced_security_committers"`
	AdvancedSecurityCommittersBreakdown []Committer `json:"advanced_security_committers_breakdown"`
}

// AdvancedSecurityUsage is the body of the enterprise advanced-security
// billing endpoint. After FetchAllUsage it holds the repositories of every
// page, while the scalar totals are those of the final page.
type AdvancedSecurityUsage struct {
	TotalAdvancedSecurityCommitters     int          `json:"total_advanced_security_committers"`
	TotalCount                          int          `json:"total_count"`
	MaximumAdvancedSecurityCommitters   int          `json:"maximum_advanced_security_committers"`
	PurchasedAdvancedSecurityCommitters int          `json:"purchased_advanced_security_committers"`
	Repositories                        []Repository `json:"repositories"`
}

// UsagePage is a single decoded page of the billing endpoint together with
// the pagination signal read from the response headers.
type UsagePage struct {
	Usage       AdvancedSecurityUsage
	Page        int
	HasNextPage bool
}

// PageOptions selects the page to fetch.
type PageOptions struct {
	// Page is 1-based. Zero means the first page.
	Page int

	// PerPage defaults to MaxPageSize and is capped at it.
	PerPage int
}

// EnterpriseInfo is the basic enterprise metadata returned by GraphQL.
type EnterpriseInfo struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

const (
	// MaxPageSize is the largest per_page value the billing endpoint accepts.
	MaxPageSize = 100

	// MediaType is the Accept header sent with REST requests.
	MediaType = "application/vnd.github+json"

	// APIVersion is the X-GitHub-Api-Version header sent with REST requests.
	APIVersion = "2022-11-28"

	// DefaultAPIEndpoint is the public GitHub REST API.
	DefaultAPIEndpoint = "https://api.github.com"

	// DefaultGraphQLEndpoint is the public GitHub GraphQL API.
	DefaultGraphQLEndpoint = "https://api.github.com/graphql"
)

func normalizePageOptions(opts PageOptions) PageOptions {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PerPage <= 0 || opts.PerPage > MaxPageSize {
		opts.PerPage = MaxPageSize
	}
	return opts
}
