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
	"strings"

	"github.com/shurcooL/graphql"
	ghaserrors "github.com/sirseerhq/sirseer-ghas/internal/errors"
	"github.com/sirseerhq/sirseer-ghas/internal/giterror"
)

// GraphQLClient implements EnterpriseClient using GitHub's GraphQL API.
// It shares the REST client's transport: bearer token, User-Agent and
// response size limits.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided token and endpoint.
// An empty endpoint means the public API.
func NewGraphQLClient(token string, endpoint string) *GraphQLClient {
	if endpoint == "" {
		endpoint = DefaultGraphQLEndpoint
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, newHTTPClient(token)),
		inspector: giterror.NewInspector(),
	}
}

// GetEnterprise retrieves the display name and URL of the enterprise
// identified by slug.
func (c *GraphQLClient) GetEnterprise(ctx context.Context, slug string) (*EnterpriseInfo, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("enterprise must not be empty")
	}

	var query struct {
		Enterprise *struct {
			Name graphql.String
			Slug graphql.String
			URL  graphql.String `graphql:"url"`
		} `graphql:"enterprise(slug: $slug)"`
	}

	variables := map[string]interface{}{
		"slug": graphql.String(slug),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, slug)
	}
	if query.Enterprise == nil {
		return nil, fmt.Errorf("enterprise '%s' not found: %w", slug, ghaserrors.ErrEnterpriseNotFound)
	}

	return &EnterpriseInfo{
		Slug: string(query.Enterprise.Slug),
		Name: string(query.Enterprise.Name),
		URL:  string(query.Enterprise.URL),
	}, nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (c *GraphQLClient) mapError(err error, slug string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", ghaserrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token with the read:enterprise scope: %w", ghaserrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("enterprise '%s' not found. Please check the enterprise slug and your access permissions: %w", slug, ghaserrors.ErrEnterpriseNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", ghaserrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to look up enterprise: %w", err)
}
