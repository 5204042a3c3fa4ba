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
	"net/url"
	"strings"

	"github.com/stockparfait/errors"
)

// Query is implemented by all the query types.
type Query interface {
	// Prefix is the URL path of the endpoint relative to the API base URL.
	Prefix() string
	// Arguments is the query string without the leading '?'. The second value
	// is false when the query string must be omitted entirely.
	Arguments() (string, bool)
}

// RequestQuery is a query accepting RequestArguments. All the queries do.
type RequestQuery interface {
	Query
	RequestArguments() RequestArguments
}

// SearchQuery is a query accepting SearchArguments.
type SearchQuery interface {
	Query
	SearchArguments() SearchArguments
}

// DataRangeQuery is a query accepting DataArguments.
type DataRangeQuery interface {
	Query
	DataArguments() DataArguments
}

var (
	_ RequestQuery   = &DatabaseMetadataQuery{}
	_ RequestQuery   = &DatasetMetadataQuery{}
	_ SearchQuery    = &DatabaseSearch{}
	_ RequestQuery   = &DatabaseSearch{}
	_ SearchQuery    = &DatasetSearch{}
	_ RequestQuery   = &DatasetSearch{}
	_ RequestQuery   = &CodeListQuery{}
	_ DataRangeQuery = &DataQuery{}
	_ RequestQuery   = &DataQuery{}
	_ DataRangeQuery = &DataAndMetadataQuery{}
	_ RequestQuery   = &DataAndMetadataQuery{}
)

// Path is the query's URL path, followed by '?' and the arguments when there
// are any.
func Path(q Query) string {
	args, ok := q.Arguments()
	if !ok {
		return q.Prefix()
	}
	return q.Prefix() + "?" + args
}

// SplitCode splits a full dataset code "DATABASE/DATASET" into its two
// non-empty parts.
func SplitCode(code string) (databaseCode, datasetCode string, err error) {
	parts := strings.Split(code, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Reason("expected DATABASE/DATASET, got '%s'", code)
	}
	return parts[0], parts[1], nil
}

// DatabaseMetadataQuery requests the metadata of a database.
//
// API reference: https://docs.data.nasdaq.com/docs/parameters-2#database-metadata
type DatabaseMetadataQuery struct {
	databaseCode string
	request      RequestArguments
}

// NewDatabaseMetadataQuery creates a new query for the database, e.g. "WIKI".
func NewDatabaseMetadataQuery(databaseCode string) *DatabaseMetadataQuery {
	return &DatabaseMetadataQuery{databaseCode: databaseCode}
}

// WithRequest returns a copy of the query with the given arguments.
func (q *DatabaseMetadataQuery) WithRequest(a RequestArguments) *DatabaseMetadataQuery {
	q2 := *q
	q2.request = a
	return &q2
}

// RequestArguments implements RequestQuery.
func (q *DatabaseMetadataQuery) RequestArguments() RequestArguments { return q.request }

// Prefix implements Query.
func (q *DatabaseMetadataQuery) Prefix() string {
	return fmt.Sprintf("/databases/%s.json", q.databaseCode)
}

// Arguments implements Query.
func (q *DatabaseMetadataQuery) Arguments() (string, bool) {
	return combine(q.request)
}

// DatasetMetadataQuery requests the metadata of a dataset.
type DatasetMetadataQuery struct {
	databaseCode string
	datasetCode  string
	request      RequestArguments
}

// NewDatasetMetadataQuery creates a new query for the dataset, e.g. "WIKI",
// "AAPL".
func NewDatasetMetadataQuery(databaseCode, datasetCode string) *DatasetMetadataQuery {
	return &DatasetMetadataQuery{databaseCode: databaseCode, datasetCode: datasetCode}
}

// WithRequest returns a copy of the query with the given arguments.
func (q *DatasetMetadataQuery) WithRequest(a RequestArguments) *DatasetMetadataQuery {
	q2 := *q
	q2.request = a
	return &q2
}

// RequestArguments implements RequestQuery.
func (q *DatasetMetadataQuery) RequestArguments() RequestArguments { return q.request }

// Prefix implements Query.
func (q *DatasetMetadataQuery) Prefix() string {
	return fmt.Sprintf("/datasets/%s/%s/metadata.json", q.databaseCode, q.datasetCode)
}

// Arguments implements Query.
func (q *DatasetMetadataQuery) Arguments() (string, bool) {
	return combine(q.request)
}

// DatabaseSearch searches the list of databases.
type DatabaseSearch struct {
	request RequestArguments
	search  SearchArguments
}

// NewDatabaseSearch creates a search over all databases.
func NewDatabaseSearch() *DatabaseSearch {
	return &DatabaseSearch{}
}

// WithRequest returns a copy of the query with the given arguments.
func (q *DatabaseSearch) WithRequest(a RequestArguments) *DatabaseSearch {
	q2 := *q
	q2.request = a
	return &q2
}

// WithSearch returns a copy of the query with the given arguments.
func (q *DatabaseSearch) WithSearch(a SearchArguments) *DatabaseSearch {
	q2 := *q
	q2.search = a
	return &q2
}

// RequestArguments implements RequestQuery.
func (q *DatabaseSearch) RequestArguments() RequestArguments { return q.request }
// SearchArguments implements SearchQuery.
func (q *DatabaseSearch) SearchArguments() SearchArguments   { return q.search }

// Prefix implements Query.
func (q *DatabaseSearch) Prefix() string {
	return "/databases.json"
}

// Arguments implements Query.
func (q *DatabaseSearch) Arguments() (string, bool) {
	return combine(q.request, q.search)
}

// DatasetSearch searches the datasets of a single database.
type DatasetSearch struct {
	databaseCode string
	request      RequestArguments
	search       SearchArguments
}

// NewDatasetSearch creates a search within the database.
func NewDatasetSearch(databaseCode string) *DatasetSearch {
	return &DatasetSearch{databaseCode: databaseCode}
}

// WithRequest returns a copy of the query with the given arguments.
func (q *DatasetSearch) WithRequest(a RequestArguments) *DatasetSearch {
	q2 := *q
	q2.request = a
	return &q2
}

// WithSearch returns a copy of the query with the given arguments.
func (q *DatasetSearch) WithSearch(a SearchArguments) *DatasetSearch {
	q2 := *q
	q2.search = a
	return &q2
}

// RequestArguments implements RequestQuery.
func (q *DatasetSearch) RequestArguments() RequestArguments { return q.request }
// SearchArguments implements SearchQuery.
func (q *DatasetSearch) SearchArguments() SearchArguments   { return q.search }

// Prefix implements Query.
func (q *DatasetSearch) Prefix() string {
	return "/datasets.json"
}

// Arguments always end with the database_code term, which scopes the search
// to the database.
func (q *DatasetSearch) Arguments() (string, bool) {
	term := "database_code=" + url.QueryEscape(q.databaseCode)
	args, ok := combine(q.request, q.search)
	if !ok {
		return term, true
	}
	return args + "&" + term, true
}

// CodeListQuery requests the list of all dataset codes in a database.
type CodeListQuery struct {
	databaseCode string
	request      RequestArguments
}

// NewCodeListQuery creates a new query for the database's codes.
func NewCodeListQuery(databaseCode string) *CodeListQuery {
	return &CodeListQuery{databaseCode: databaseCode}
}

// WithRequest returns a copy of the query with the given arguments.
func (q *CodeListQuery) WithRequest(a RequestArguments) *CodeListQuery {
	q2 := *q
	q2.request = a
	return &q2
}

// RequestArguments implements RequestQuery.
func (q *CodeListQuery) RequestArguments() RequestArguments { return q.request }

// Prefix implements Query.
func (q *CodeListQuery) Prefix() string {
	return fmt.Sprintf("/databases/%s/codes", q.databaseCode)
}

// Arguments implements Query.
func (q *CodeListQuery) Arguments() (string, bool) {
	return combine(q.request)
}

// DataQuery requests the time-series data of a dataset.
type DataQuery struct {
	databaseCode string
	datasetCode  string
	request      RequestArguments
	data         DataArguments
}

// NewDataQuery creates a new query for the dataset's data.
func NewDataQuery(databaseCode, datasetCode string) *DataQuery {
	return &DataQuery{databaseCode: databaseCode, datasetCode: datasetCode}
}

// WithRequest returns a copy of the query with the given arguments.
func (q *DataQuery) WithRequest(a RequestArguments) *DataQuery {
	q2 := *q
	q2.request = a
	return &q2
}

// WithData returns a copy of the query with the given arguments.
func (q *DataQuery) WithData(a DataArguments) *DataQuery {
	q2 := *q
	q2.data = a
	return &q2
}

// RequestArguments implements RequestQuery.
func (q *DataQuery) RequestArguments() RequestArguments { return q.request }
// DataArguments implements DataRangeQuery.
func (q *DataQuery) DataArguments() DataArguments       { return q.data }

// Prefix implements Query.
func (q *DataQuery) Prefix() string {
	return fmt.Sprintf("/datasets/%s/%s/data.json", q.databaseCode, q.datasetCode)
}

// Arguments implements Query.
func (q *DataQuery) Arguments() (string, bool) {
	return combine(q.request, q.data)
}

// DataAndMetadataQuery requests both the data and the metadata of a dataset.
type DataAndMetadataQuery struct {
	databaseCode string
	datasetCode  string
	request      RequestArguments
	data         DataArguments
}

// NewDataAndMetadataQuery creates a new query for the dataset.
func NewDataAndMetadataQuery(databaseCode, datasetCode string) *DataAndMetadataQuery {
	return &DataAndMetadataQuery{databaseCode: databaseCode, datasetCode: datasetCode}
}

// WithRequest returns a copy of the query with the given arguments.
func (q *DataAndMetadataQuery) WithRequest(a RequestArguments) *DataAndMetadataQuery {
	q2 := *q
	q2.request = a
	return &q2
}

// WithData returns a copy of the query with the given arguments.
func (q *DataAndMetadataQuery) WithData(a DataArguments) *DataAndMetadataQuery {
	q2 := *q
	q2.data = a
	return &q2
}

// RequestArguments implements RequestQuery.
func (q *DataAndMetadataQuery) RequestArguments() RequestArguments { return q.request }
// DataArguments implements DataRangeQuery.
func (q *DataAndMetadataQuery) DataArguments() DataArguments       { return q.data }

// Prefix implements Query.
func (q *DataAndMetadataQuery) Prefix() string {
	return fmt.Sprintf("/datasets/%s/%s.json", q.databaseCode, q.datasetCode)
}

// Arguments implements Query.
func (q *DataAndMetadataQuery) Arguments() (string, bool) {
	return combine(q.request, q.data)
}
