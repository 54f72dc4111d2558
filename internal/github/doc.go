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

// Package github provides clients for the GitHub APIs that sirseer-ghas
// needs: the enterprise advanced-security billing endpoint over REST and an
// enterprise lookup over GraphQL.
//
// The package includes:
//   - UsageClient and EnterpriseClient interfaces
//   - A REST implementation built on go-github with oauth2 bearer auth
//   - FetchAllUsage, which drains every page of the billing endpoint
//   - HasNextLink, the default Link header continuation predicate
//   - A GraphQL implementation using the shurcooL/graphql library
//   - Mock client for testing
//
// Basic usage:
//
//	client, err := github.NewRESTClient("your-github-token", "https://api.github.com")
//	if err != nil {
//	    // Handle error
//	}
//	usage, err := github.FetchAllUsage(ctx, client, "acme")
//	if err != nil {
//	    // Handle error
//	}
//	for _, repo := range usage.Repositories {
//	    // Process repository
//	}
package github
