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

// Package metadata types define the structures used for tracking and
// persisting information about billing fetches. These types capture
// run statistics and audit information for enterprise compliance.
package metadata

import (
	"time"
)

// FetchMetadata represents the complete metadata record for a single fetch
// of an enterprise's Advanced Security usage.
type FetchMetadata struct {
	ToolVersion   string       `json:"tool_version"`
	APIVersion    string       `json:"api_version"`
	FetchID       string       `json:"fetch_id"`
	Parameters    FetchParams  `json:"parameters"`
	Results       FetchResults `json:"results"`
	PreviousFetch *FetchRef    `json:"previous_fetch,omitempty"`
}

// FetchParams captures the input parameters used for a fetch operation.
type FetchParams struct {
	Enterprise     string `json:"enterprise"`
	APIEndpoint    string `json:"api_endpoint"`
	PerPage        int    `json:"per_page"`
	OutputFormat   string `json:"output_format"`
	WithEnterprise bool   `json:"with_enterprise"`
}

// FetchResults contains the statistics of a completed fetch.
type FetchResults struct {
	Pages            int       `json:"pages"`
	Repositories     int       `json:"repositories"`
	Organizations    int       `json:"organizations"`
	UniqueCommitters int       `json:"unique_committers"`
	Inconsistencies  int       `json:"inconsistencies"`
	Duration         string    `json:"fetch_duration"`
	APICallCount     int       `json:"api_calls_made"`
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
}

// FetchRef points at an earlier fetch of the same enterprise.
type FetchRef struct {
	FetchID          string    `json:"fetch_id"`
	CompletedAt      time.Time `json:"completed_at"`
	UniqueCommitters int       `json:"unique_committers"`
}
