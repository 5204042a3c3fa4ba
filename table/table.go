// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table renders rows of results as CSV or as aligned text.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
)

// Row interface that a table row representation must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Table container.
//
// A typical use:
//
//	type Quote struct {
//	  Ticker string
//	  Close  float64
//	}
//
//	func (q Quote) CSV() []string {
//	  return []string{q.Ticker, fmt.Sprintf("%g", q.Close)}
//	}
//	t := NewTable("Ticker", "Close")
//	t.AddRow(Quote{"AAPL", 116.15}, Quote{"MSFT", 62.3})
type Table struct {
	Header []string // optional, may be nil
	Rows   []Row
}

// NewTable creates a new Table instance with optional column headers. When
// present, the number of headers must be the same as the number of elements in
// each Row.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

func (t *Table) hasHeader(p Params) bool {
	return !p.NoHeader && len(t.Header) > 0
}

// cells returns copies of the header (if printed) and the rows to print, and
// checks that all of them have the same number of columns.
func (t *Table) cells(p Params) ([][]string, error) {
	var res [][]string
	add := func(row []string) {
		res = append(res, append([]string{}, row...))
	}
	if t.hasHeader(p) {
		add(t.Header)
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		add(r.CSV())
	}
	for i, row := range res {
		if len(row) != len(res[0]) {
			return nil, errors.Reason("row %d has %d columns, expected %d",
				i, len(row), len(res[0]))
		}
	}
	return res, nil
}

// WriteCSV writes the table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	rows, err := t.cells(p)
	if err != nil {
		return errors.Annotate(err, "inconsistent table")
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return errors.Annotate(err, "failed to write CSV")
	}
	return nil
}

// isNumeric column has only numbers or empty cells, and at least one number.
func isNumeric(rows [][]string, col int) bool {
	found := false
	for _, row := range rows {
		if row[col] == "" {
			continue
		}
		if _, err := strconv.ParseFloat(row[col], 64); err != nil {
			return false
		}
		found = true
	}
	return found
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width == 0 || len(r) <= width {
		return s
	}
	return string(r[:width-2]) + ".."
}

// WriteText writes the table as aligned columns: numbers to the right, text to
// the left. The header, if any, is underlined.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	rows, err := t.cells(p)
	if err != nil {
		return errors.Annotate(err, "inconsistent table")
	}
	if len(rows) == 0 {
		return nil
	}
	body := rows
	if t.hasHeader(p) {
		body = rows[1:]
	}
	numCols := len(rows[0])
	numeric := make([]bool, numCols)
	widths := make([]int, numCols)
	for j := 0; j < numCols; j++ {
		numeric[j] = isNumeric(body, j)
	}
	for i, row := range rows {
		for j, s := range row {
			s = truncate(s, p.MaxColWidth)
			rows[i][j] = s
			if n := len([]rune(s)); n > widths[j] {
				widths[j] = n
			}
		}
	}

	write := func(row []string) error {
		padded := make([]string, len(row))
		for j, s := range row {
			if numeric[j] {
				padded[j] = fmt.Sprintf("%*s", widths[j], s)
			} else {
				padded[j] = fmt.Sprintf("%-*s", widths[j], s)
			}
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(padded, "  "), " "))
		return err
	}

	for i, row := range rows {
		if err := write(row); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
		if i == 0 && t.hasHeader(p) {
			dashes := make([]string, numCols)
			for j := range dashes {
				dashes[j] = strings.Repeat("-", widths[j])
			}
			if err := write(dashes); err != nil {
				return errors.Annotate(err, "failed to write header separator")
			}
		}
	}
	return nil
}
