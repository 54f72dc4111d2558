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
	"sync"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXWriter renders Sheeter values into a workbook. Sheets from every
// Write call are appended; the workbook is saved on Close.
type XLSXWriter struct {
	mu     sync.Mutex
	file   *excelize.File
	path   string
	sheets int
	bold   int
	closed bool
}

// NewXLSXFileWriter creates a writer that saves the workbook to path.
// The file is only created when Close succeeds in rendering.
func NewXLSXFileWriter(path string) *XLSXWriter {
	return &XLSXWriter{file: excelize.NewFile(), path: path, bold: -1}
}

// Write adds the sheets of record, which must implement Sheeter.
func (x *XLSXWriter) Write(record interface{}) error {
	sheeter, ok := record.(Sheeter)
	if !ok {
		return fmt.Errorf("xlsx output cannot render %T", record)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return fmt.Errorf("xlsx writer is closed")
	}
	for _, sheet := range sheeter.Sheets() {
		if err := x.addSheet(sheet); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
	}
	return nil
}

func (x *XLSXWriter) addSheet(sheet Sheet) error {
	if x.sheets == 0 {
		if err := x.file.SetSheetName(defaultSheet, sheet.Name); err != nil {
			return err
		}
	} else if _, err := x.file.NewSheet(sheet.Name); err != nil {
		return err
	}
	x.sheets++

	if err := x.setRow(sheet.Name, 1, toRow(sheet.Header)); err != nil {
		return err
	}
	if err := x.styleHeader(sheet.Name); err != nil {
		return err
	}
	for i, row := range sheet.Rows {
		if err := x.setRow(sheet.Name, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (x *XLSXWriter) setRow(sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return x.file.SetSheetRow(sheet, cell, &values)
}

func (x *XLSXWriter) styleHeader(sheet string) error {
	if x.bold < 0 {
		id, err := x.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		x.bold = id
	}
	return x.file.SetRowStyle(sheet, 1, 1, x.bold)
}

// Close renders the workbook to its destination and releases it.
func (x *XLSXWriter) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return nil
	}
	x.closed = true
	defer x.file.Close()

	if x.sheets == 0 {
		return fmt.Errorf("xlsx output has no sheets")
	}

	x.file.SetActiveSheet(0)
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func toRow(header []string) []interface{} {
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}
