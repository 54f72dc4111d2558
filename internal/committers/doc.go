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

// Package committers groups Advanced Security committers by organization.
//
// Aggregation is a pure function of a fetched usage document: every
// repository contributes its organization to the result, even when its
// committer breakdown is empty, and each login is counted once per
// organization regardless of how many repositories it pushed to.
package committers
