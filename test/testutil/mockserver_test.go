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

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

func TestNewBillingServer_ServesPagesWithLinks(t *testing.T) {
	server := NewBillingServer(t, "acme",
		PageResponse{Body: NewUsageBuilder().WithRepository("org1/repo1", "user1").Build(), Next: true},
		PageResponse{Body: NewUsageBuilder().WithRepository("org1/repo2", "user2").Build()},
	)

	tests := []struct {
		page     string
		wantLink bool
		wantRepo string
	}{
		{"1", true, "org1/repo1"},
		{"2", false, "org1/repo2"},
	}

	for _, tt := range tests {
		t.Run("page "+tt.page, func(t *testing.T) {
			resp, err := http.Get(server.URL + "/enterprises/acme/settings/billing/advanced-security?page=" + tt.page)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if got := resp.Header.Get("Link") != ""; got != tt.wantLink {
				t.Errorf("Link present = %v, want %v", got, tt.wantLink)
			}

			var body struct {
				Repositories []struct {
					Name string `json:"name"`
				} `json:"repositories"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if len(body.Repositories) != 1 || body.Repositories[0].Name != tt.wantRepo {
				t.Errorf("repositories = %+v, want %s", body.Repositories, tt.wantRepo)
			}
		})
	}

	if server.RequestCount() != 2 {
		t.Errorf("RequestCount() = %d, want 2", server.RequestCount())
	}
}

func TestNewBillingServer_UnknownPath(t *testing.T) {
	server := NewBillingServer(t, "acme")

	resp, err := http.Get(server.URL + "/enterprises/other/settings/billing/advanced-security")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNewErrorServer(t *testing.T) {
	server := NewErrorServer(t, http.StatusUnauthorized)

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized || body["message"] != "Unauthorized" {
		t.Errorf("got %d %v", resp.StatusCode, body)
	}
}

func TestGenerateUsagePages(t *testing.T) {
	pages := GenerateUsagePages([]string{"a", "b"}, 3, 4)
	if len(pages) != 3 {
		t.Fatalf("len(pages) = %d, want 3", len(pages))
	}

	for i, p := range pages {
		wantNext := i < 2
		if p.Next != wantNext {
			t.Errorf("page %d Next = %v, want %v", i+1, p.Next, wantNext)
		}
		body := p.Body.(map[string]interface{})
		repos := body["repositories"].([]map[string]interface{})
		if len(repos) != 4 {
			t.Errorf("page %d has %d repositories, want 4", i+1, len(repos))
		}
		if body["total_count"] != 12 {
			t.Errorf("page %d total_count = %v, want 12", i+1, body["total_count"])
		}
	}
}
