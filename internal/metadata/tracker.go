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

// Package metadata tracks and persists statistics about billing fetches:
// pages read, API calls made, repositories and organizations seen, and a
// link to the previous fetch of the same enterprise.
//
// Metadata is saved as JSON files in a user-chosen directory, allowing
// external tools to follow committer counts from run to run.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sirseerhq/sirseer-ghas/internal/logger"
)

// Tracker accumulates statistics during a fetch. It is safe for
// concurrent use.
type Tracker struct {
	mu              sync.Mutex
	startTime       time.Time
	apiCallCount    int
	pages           int
	repositories    int
	inconsistencies int
}

// New creates a tracker whose clock starts now.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementAPICall records one request to the GitHub API.
func (t *Tracker) IncrementAPICall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiCallCount++
}

// RecordPage records a completed page holding the given number of repositories.
func (t *Tracker) RecordPage(repositories int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pages++
	t.repositories += repositories
}

// RecordInconsistency counts a summary field that changed between pages.
func (t *Tracker) RecordInconsistency() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inconsistencies++
}

// GenerateMetadata builds the metadata record for the finished fetch.
func (t *Tracker) GenerateMetadata(toolVersion, apiVersion string, params FetchParams, organizations, committers int, previous *FetchRef) *FetchMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()

	return &FetchMetadata{
		ToolVersion: toolVersion,
		APIVersion:  apiVersion,
		FetchID:     uuid.NewString(),
		Parameters:  params,
		Results: FetchResults{
			Pages:            t.pages,
			Repositories:     t.repositories,
			Organizations:    organizations,
			UniqueCommitters: committers,
			Inconsistencies:  t.inconsistencies,
			Duration:         completedAt.Sub(t.startTime).String(),
			APICallCount:     t.apiCallCount,
			StartedAt:        t.startTime,
			CompletedAt:      completedAt,
		},
		PreviousFetch: previous,
	}
}

// Ref returns a reference to m for linking from a later fetch.
func (m *FetchMetadata) Ref() *FetchRef {
	return &FetchRef{
		FetchID:          m.FetchID,
		CompletedAt:      m.Results.CompletedAt,
		UniqueCommitters: m.Results.UniqueCommitters,
	}
}

// Filename returns the file name metadata is saved under.
func Filename(enterprise string, startedAt time.Time) string {
	return fmt.Sprintf("fetch-metadata-%s-%d.json", safeName(enterprise), startedAt.Unix())
}

// SaveMetadata writes metadata into dir, creating it if needed. The file is
// written to a unique temporary file and renamed into place. A second fetch
// of the same enterprise within the same second gets the fetch id appended
// to its name. It returns the path of the saved file.
func SaveMetadata(metadata *FetchMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	file, err := os.CreateTemp(dir, ".fetch-metadata-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}
	tmpFile := file.Name()

	if err := file.Chmod(0o644); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to set metadata file mode: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	path := filepath.Join(dir, Filename(metadata.Parameters.Enterprise, metadata.Results.StartedAt))
	if _, err := os.Stat(path); err == nil {
		path = strings.TrimSuffix(path, ".json") + "-" + safeName(metadata.FetchID) + ".json"
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}

// LoadLatestMetadata returns the most recent metadata saved in dir for
// enterprise, or nil when there is none. Files that cannot be parsed are
// skipped.
func LoadLatestMetadata(dir, enterprise string) (*FetchMetadata, error) {
	pattern := filepath.Join(dir, "fetch-metadata-"+safeName(enterprise)+"-*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var latest *FetchMetadata
	for _, file := range files {
		m, err := readMetadata(file)
		if err != nil {
			logger.WithError(err).WithField("file", file).Debug("Skipping unreadable metadata file")
			continue
		}
		// The glob also matches slugs sharing this prefix.
		if m.Parameters.Enterprise != enterprise {
			continue
		}
		if latest == nil || m.Results.StartedAt.After(latest.Results.StartedAt) {
			latest = m
		}
	}

	return latest, nil
}

func readMetadata(path string) (*FetchMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var metadata FetchMetadata
	if err := json.NewDecoder(file).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", path, err)
	}
	return &metadata, nil
}

// WriteMetadataToWriter writes indented metadata JSON to w.
func WriteMetadataToWriter(metadata *FetchMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
