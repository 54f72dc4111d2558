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

import "context"

// UsageClient fetches pages of the enterprise advanced-security billing
// endpoint. This interface allows for easy mocking in tests.
type UsageClient interface {
	// FetchUsagePage issues exactly one request for the given page and
	// reports whether the server advertised a further page.
	FetchUsagePage(ctx context.Context, enterprise string, opts PageOptions) (*UsagePage, error)
}

// EnterpriseClient looks up enterprise metadata.
type EnterpriseClient interface {
	// GetEnterprise retrieves the display name and URL of an enterprise by slug.
	GetEnterprise(ctx context.Context, slug string) (*EnterpriseInfo, error)
}
