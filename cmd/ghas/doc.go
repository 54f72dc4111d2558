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

// Package main implements the sirseer-ghas command-line interface.
// It reports the GitHub Advanced Security committers of an enterprise,
// grouped by organization, from the enterprise billing API.
//
// The CLI supports:
//   - Fetching every page of the Advanced Security billing report
//   - JSON, NDJSON and XLSX output to stdout or a file
//   - An optional enterprise lookup over GraphQL (--with-enterprise)
//   - Per-run fetch metadata files (--metadata-dir)
//   - Configuration through YAML files, .env and environment variables
//
// Usage:
//
//	sirseer-ghas <enterprise-id> [github-token] [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-ghas acme --output committers.xlsx --format xlsx
//
// Exit codes:
//   - 0: Success
//   - 1: General error or invalid usage
//   - 2: Authentication, authorization, not found or rate limit error
//   - 3: Network error
package main
