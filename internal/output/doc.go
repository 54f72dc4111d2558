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

// Package output writes reports as JSON, NDJSON (Newline Delimited JSON)
// or XLSX workbooks.
//
// JSON and NDJSON share the Writer type: every call to Write encodes one
// value, either indented (a single report document) or compact on its own
// line (one record per organization). XLSXWriter collects the tables of a
// Sheeter and emits the workbook when it is closed, so a failed run never
// leaves a partial spreadsheet behind.
//
// Example usage:
//
//	w, err := output.New(output.FormatJSON, "report.json", os.Stdout)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(rep); err != nil {
//	    return err
//	}
package output
