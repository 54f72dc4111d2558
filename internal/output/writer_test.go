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

package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type orgRecord struct {
	Organization     string   `json:"organization"`
	UniqueCommitters int      `json:"uniqueCommitters"`
	Committers       []string `json:"committers"`
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	if writer == nil {
		t.Fatal("NewWriter returned nil")
	}
	if writer.output != &buf {
		t.Error("Writer output doesn't match provided buffer")
	}
	if writer.closeFunc != nil {
		t.Error("Writer over a buffer must not own a closer")
	}
}

func TestWriter_WriteNDJSON(t *testing.T) {
	tests := []struct {
		name    string
		records []orgRecord
		want    []string
	}{
		{
			name: "single organization",
			records: []orgRecord{
				{Organization: "org1", UniqueCommitters: 2, Committers: []string{"user1", "user2"}},
			},
			want: []string{
				`{"organization":"org1","uniqueCommitters":2,"committers":["user1","user2"]}`,
			},
		},
		{
			name: "multiple organizations",
			records: []orgRecord{
				{Organization: "org1", UniqueCommitters: 1, Committers: []string{"user1"}},
				{Organization: "org2", UniqueCommitters: 0, Committers: []string{}},
			},
			want: []string{
				`{"organization":"org1","uniqueCommitters":1,"committers":["user1"]}`,
				`{"organization":"org2","uniqueCommitters":0,"committers":[]}`,
			},
		},
		{
			name:    "no organizations",
			records: []orgRecord{},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewWriter(&buf)

			for _, record := range tt.records {
				if err := writer.Write(record); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}

			output := strings.TrimSpace(buf.String())
			if output == "" && len(tt.want) == 0 {
				return
			}

			lines := strings.Split(output, "\n")
			if !reflect.DeepEqual(lines, tt.want) {
				t.Errorf("output mismatch:\ngot:  %q\nwant: %q", lines, tt.want)
			}
		})
	}
}

func TestJSONWriter_Indents(t *testing.T) {
	var buf bytes.Buffer
	writer := NewJSONWriter(&buf)

	if err := writer.Write(orgRecord{Organization: "org1", Committers: []string{"user1"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := "{\n  \"organization\": \"org1\",\n  \"uniqueCommitters\": 0,\n  \"committers\": [\n    \"user1\"\n  ]\n}\n"
	if buf.String() != want {
		t.Errorf("output mismatch:\ngot:  %q\nwant: %q", buf.String(), want)
	}
}

func TestWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	numGoroutines := 10
	recordsPerGoroutine := 100
	totalRecords := numGoroutines * recordsPerGoroutine

	errCh := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < recordsPerGoroutine; j++ {
				record := orgRecord{
					Organization:     "org",
					UniqueCommitters: id*recordsPerGoroutine + j,
				}
				if err := writer.Write(record); err != nil {
					errCh <- err
					return
				}
			}
			errCh <- nil
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("Concurrent write failed: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != totalRecords {
		t.Errorf("Line count mismatch: got %d, want %d", len(lines), totalRecords)
	}

	for i, line := range lines {
		var record orgRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Errorf("Invalid JSON at line %d: %v", i, err)
		}
	}
}

func TestNewFileWriter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "report.ndjson")

	writer, err := NewFileWriter(filename)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}

	records := []orgRecord{
		{Organization: "org1", UniqueCommitters: 3},
		{Organization: "org2", UniqueCommitters: 1},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != len(records) {
		t.Fatalf("Line count mismatch: got %d, want %d", len(lines), len(records))
	}
	for i, line := range lines {
		var record orgRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("Failed to parse JSON at line %d: %v", i, err)
		}
		if record.Organization != records[i].Organization {
			t.Errorf("Organization mismatch at line %d: got %s, want %s", i, record.Organization, records[i].Organization)
		}
	}
}

func TestNewFileWriter_Error(t *testing.T) {
	_, err := NewFileWriter("/non/existent/path/report.ndjson")
	if err == nil {
		t.Error("Expected error for non-existent directory, got nil")
	}
}

func TestWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	if err := writer.Write(make(chan int)); err == nil {
		t.Error("Expected error when writing non-marshalable data")
	}
	if buf.Len() != 0 {
		t.Errorf("failed writes must not produce output, got %q", buf.String())
	}
}
