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
	"fmt"
	"io"
	"strings"
)

// OutputWriter defines the interface for writing report data.
// This abstraction allows for different output formats and destinations.
type OutputWriter interface {
	// Write writes a single value to the output.
	Write(record interface{}) error

	// Close flushes any buffered data and releases the underlying resources.
	Close() error
}

// Sheet is a single worksheet: a header row followed by data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Sheeter is implemented by values that can be rendered as a workbook.
type Sheeter interface {
	Sheets() []Sheet
}

// Format names an output encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatXLSX   Format = "xlsx"
)

// ParseFormat validates a format name. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatNDJSON, FormatXLSX:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected json, ndjson or xlsx)", s)
	}
}

// New opens a writer for format. An empty path writes to stdout, which is
// not supported for XLSX.
func New(format Format, path string, stdout io.Writer) (OutputWriter, error) {
	switch format {
	case FormatJSON, "":
		if path == "" {
			return NewJSONWriter(stdout), nil
		}
		w, err := NewFileWriter(path)
		if err != nil {
			return nil, err
		}
		w.encoder.SetIndent("", "  ")
		return w, nil
	case FormatNDJSON:
		if path == "" {
			return NewWriter(stdout), nil
		}
		return NewFileWriter(path)
	case FormatXLSX:
		if path == "" {
			return nil, fmt.Errorf("xlsx output requires an output file")
		}
		return NewXLSXFileWriter(path), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
