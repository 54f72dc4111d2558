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

package github

import (
	"context"
	"fmt"
)

// PageEvent describes a page that FetchAllUsage has consumed.
type PageEvent struct {
	Page         int
	Repositories int
	Total        int
	HasNextPage  bool
}

// Inconsistency describes a summary value that disagrees with the final
// page. Page is zero when the check is the final total_count against the
// number of repositories collected.
type Inconsistency struct {
	Field string
	Page  int
	Value int
	Final int
}

func (i Inconsistency) String() string {
	if i.Page == 0 {
		return fmt.Sprintf("%s is %d but %d repositories were returned", i.Field, i.Final, i.Value)
	}
	return fmt.Sprintf("%s was %d on page %d but %d on the final page", i.Field, i.Value, i.Page, i.Final)
}

type fetchConfig struct {
	apiEndpoint     string
	perPage         int
	onPage          func(PageEvent)
	onInconsistency func(Inconsistency)
}

// FetchOption configures FetchAllUsage.
type FetchOption func(*fetchConfig)

// WithPerPage overrides the page size. Values outside 1..MaxPageSize fall
// back to MaxPageSize.
func WithPerPage(n int) FetchOption {
	return func(c *fetchConfig) {
		c.perPage = n
	}
}

// WithAPIEndpoint points FetchAdvancedSecurityUsage at another REST API
// root, such as a GitHub Enterprise Server instance. FetchAllUsage ignores
// it since the client already carries its endpoint.
func WithAPIEndpoint(endpoint string) FetchOption {
	return func(c *fetchConfig) {
		c.apiEndpoint = endpoint
	}
}

// WithPageHook registers a callback invoked after every page.
func WithPageHook(fn func(PageEvent)) FetchOption {
	return func(c *fetchConfig) {
		c.onPage = fn
	}
}

// WithInconsistencyHook registers a callback for summary values that differ
// between pages. Values are never reconciled.
func WithInconsistencyHook(fn func(Inconsistency)) FetchOption {
	return func(c *fetchConfig) {
		c.onInconsistency = fn
	}
}

// FetchAllUsage drains every page of the billing endpoint for enterprise,
// one request at a time in page order, until a response no longer
// advertises a next page. The result carries the final page's summary
// values and the repositories of all pages in order. Any failure aborts the
// whole fetch and no partial result is returned.
func FetchAllUsage(ctx context.Context, client UsageClient, enterprise string, opts ...FetchOption) (*AdvancedSecurityUsage, error) {
	cfg := fetchConfig{perPage: MaxPageSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		repositories = make([]Repository, 0)
		summaries    []AdvancedSecurityUsage
		last         *UsagePage
	)

	for page := 1; last == nil; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := client.FetchUsagePage(ctx, enterprise, PageOptions{Page: page, PerPage: cfg.perPage})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch advanced security usage page %d: %w", page, err)
		}
		if p == nil {
			return nil, fmt.Errorf("failed to fetch advanced security usage page %d: empty response", page)
		}

		repositories = append(repositories, p.Usage.Repositories...)
		summary := p.Usage
		summary.Repositories = nil
		summaries = append(summaries, summary)

		if cfg.onPage != nil {
			cfg.onPage(PageEvent{
				Page:         page,
				Repositories: len(p.Usage.Repositories),
				Total:        len(repositories),
				HasNextPage:  p.HasNextPage,
			})
		}

		if !p.HasNextPage {
			last = p
		}
	}

	result := last.Usage
	result.Repositories = repositories

	if cfg.onInconsistency != nil {
		for _, inc := range findInconsistencies(summaries, len(repositories)) {
			cfg.onInconsistency(inc)
		}
	}

	return &result, nil
}

// FetchAdvancedSecurityUsage fetches every page for enterprise using token,
// from the public GitHub API unless WithAPIEndpoint says otherwise.
func FetchAdvancedSecurityUsage(ctx context.Context, enterprise, token string, opts ...FetchOption) (*AdvancedSecurityUsage, error) {
	cfg := fetchConfig{apiEndpoint: DefaultAPIEndpoint}
	for _, opt := range opts {
		opt(&cfg)
	}

	client, err := NewRESTClient(token, cfg.apiEndpoint)
	if err != nil {
		return nil, err
	}
	return FetchAllUsage(ctx, client, enterprise, opts...)
}

func findInconsistencies(summaries []AdvancedSecurityUsage, collected int) []Inconsistency {
	if len(summaries) == 0 {
		return nil
	}
	final := summaries[len(summaries)-1]

	var found []Inconsistency
	for i, s := range summaries[:len(summaries)-1] {
		page := i + 1
		for _, f := range []struct {
			name         string
			value, final int
		}{
			{"total_advanced_security_committers", s.TotalAdvancedSecurityCommitters, final.TotalAdvancedSecurityCommitters},
			{"total_count", s.TotalCount, final.TotalCount},
			{"maximum_advanced_security_committers", s.MaximumAdvancedSecurityCommitters, final.MaximumAdvancedSecurityCommitters},
			{"purchased_advanced_security_committers", s.PurchasedAdvancedSecurityCommitters, final.PurchasedAdvancedSecurityCommitters},
		} {
			if f.value != f.final {
				found = append(found, Inconsistency{Field: f.name, Page: page, Value: f.value, Final: f.final})
			}
		}
	}

	if final.TotalCount != collected {
		found = append(found, Inconsistency{Field: "total_count", Value: collected, Final: final.TotalCount})
	}
	return found
}
