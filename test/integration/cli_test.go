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

package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/sirseerhq/sirseer-ghas/test/testutil"
)

func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the binary")
	}
}

func TestCLI_MissingArguments(t *testing.T) {
	skipShort(t)

	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "no enterprise",
			args:    nil,
			env:     map[string]string{"GITHUB_TOKEN": "test-token"},
			wantErr: "enterprise id is required",
		},
		{
			name:    "no token",
			args:    []string{"acme"},
			wantErr: "GitHub token not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testutil.RunCLI(t, tt.args, tt.env)

			testutil.AssertCLIError(t, result, tt.wantErr)
			testutil.AssertExitCode(t, result, 1)
			if !strings.Contains(result.Stderr, "Usage:") {
				t.Errorf("expected usage on stderr, got: %s", result.Stderr)
			}
			if result.Stdout != "" {
				t.Errorf("expected empty stdout, got: %s", result.Stdout)
			}
		})
	}
}

func TestCLI_Unauthorized(t *testing.T) {
	skipShort(t)

	server := testutil.NewErrorServer(t, http.StatusUnauthorized)
	result := testutil.RunWithMockServer(t, server, "acme")

	testutil.AssertCLIError(t, result, "401 Unauthorized")
	testutil.AssertExitCode(t, result, 2)
	if result.Stdout != "" {
		t.Errorf("expected empty stdout, got: %s", result.Stdout)
	}
}

func TestCLI_EnterpriseNotFound(t *testing.T) {
	skipShort(t)

	server := testutil.NewBillingServer(t, "acme")
	result := testutil.RunWithMockServer(t, server, "ghost")

	testutil.AssertCLIError(t, result, "404 Not Found")
	testutil.AssertExitCode(t, result, 2)
}

func TestCLI_Version(t *testing.T) {
	skipShort(t)

	result := testutil.RunCLI(t, []string{"--version"}, nil)
	testutil.AssertCLISuccess(t, result)
	if !strings.Contains(result.Stdout, "sirseer-ghas version") {
		t.Errorf("unexpected version output: %s", result.Stdout)
	}
}
