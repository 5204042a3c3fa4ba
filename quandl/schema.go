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

package quandl

import (
	"fmt"
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/quandl/date"
)

// DatabaseMetadata is the description of a database.
type DatabaseMetadata struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	DatabaseCode  string `json:"database_code"`
	Description   string `json:"description"`
	DatasetsCount int    `json:"datasets_count"`
	Downloads     int    `json:"downloads"`
	Premium       bool   `json:"premium"`
	Image         string `json:"image"`
	Favorite      bool   `json:"favorite"`
	URLName       string `json:"url_name"`
}

// DatasetMetadata is the description of a dataset.
type DatasetMetadata struct {
	ID                  int       `json:"id"`
	DatasetCode         string    `json:"dataset_code"`
	DatabaseCode        string    `json:"database_code"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	RefreshedAt         date.Time `json:"refreshed_at"`
	NewestAvailableDate date.Date `json:"newest_available_date"`
	OldestAvailableDate date.Date `json:"oldest_available_date"`
	ColumnNames         []string  `json:"column_names"`
	Frequency           string    `json:"frequency"`
	Type                string    `json:"type"`
	Premium             bool      `json:"premium"`
	DatabaseID          int       `json:"database_id"`
}

// DatabaseList is a page of database search results.
type DatabaseList []DatabaseMetadata

// DatasetList is a page of dataset search results.
type DatasetList []DatasetMetadata

// Data is the time-series of a dataset. T is the type of a single row, such
// as Row, or a custom type implementing json.Unmarshaler for a known schema.
type Data[T any] struct {
	Limit       int       `json:"limit"`
	Transform   Transform `json:"transform"`
	ColumnIndex int       `json:"column_index"`
	ColumnNames []string  `json:"column_names"`
	StartDate   date.Date `json:"start_date"`
	EndDate     date.Date `json:"end_date"`
	Frequency   string    `json:"frequency"`
	Data        []T       `json:"data"`
	Collapse    Collapse  `json:"collapse"`
	Order       Order     `json:"order"`
}

// DataAndMetadata is the time-series of a dataset along with its metadata.
type DataAndMetadata[T any] struct {
	DatasetMetadata
	Limit       int       `json:"limit"`
	Transform   Transform `json:"transform"`
	ColumnIndex int       `json:"column_index"`
	StartDate   date.Date `json:"start_date"`
	EndDate     date.Date `json:"end_date"`
	Data        []T       `json:"data"`
	Collapse    Collapse  `json:"collapse"`
	Order       Order     `json:"order"`
}

// Code identifies a dataset in a code list.
type Code struct {
	DatabaseCode string
	DatasetCode  string
	Name         string
}

// CodeHeader is the table header matching Code.CSV().
func CodeHeader() []string {
	return []string{"Database", "Dataset", "Name"}
}

// CSV representation of the Code.
func (c Code) CSV() []string {
	return []string{c.DatabaseCode, c.DatasetCode, c.Name}
}

// Value is an arbitrary value of a data cell, as decoded from JSON: a string,
// a float64, or nil.
type Value interface{}

// Row is a generic data row. By convention, the first value is the date.
type Row []Value

// Date parses the i'th value as a date.
func (r Row) Date(i int) (date.Date, error) {
	if i < 0 || i >= len(r) {
		return date.Date{}, errors.Reason("column %d is out of range [0..%d)", i, len(r))
	}
	s, ok := r[i].(string)
	if !ok {
		return date.Date{}, errors.Reason("column %d = %v is not a date string", i, r[i])
	}
	return date.NewDateFromString(s)
}

// Float returns the i'th value as a number. The second value is false for
// nulls, which the API uses for missing values.
func (r Row) Float(i int) (float64, bool, error) {
	if i < 0 || i >= len(r) {
		return 0, false, errors.Reason("column %d is out of range [0..%d)", i, len(r))
	}
	switch v := r[i].(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	}
	return 0, false, errors.Reason("column %d = %v is not a number", i, r[i])
}

// CSV representation of the Row.
func (r Row) CSV() []string {
	res := make([]string, len(r))
	for i, v := range r {
		switch x := v.(type) {
		case nil:
			res[i] = ""
		case float64:
			res[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			res[i] = fmt.Sprintf("%v", x)
		}
	}
	return res
}

// Column extracts the numeric values of the i'th column, skipping nulls.
func Column(rows []Row, i int) ([]float64, error) {
	var res []float64
	for j, r := range rows {
		v, ok, err := r.Float(i)
		if err != nil {
			return nil, errors.Annotate(err, "row %d", j)
		}
		if ok {
			res = append(res, v)
		}
	}
	return res, nil
}
