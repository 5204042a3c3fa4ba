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
	"github.com/stockparfait/quandl/date"
	"golang.org/x/exp/slices"
)

// fragment accumulates key=value entries of an argument group in the order
// they are added.
type fragment []string

func (f *fragment) add(key, value string) {
	*f = append(*f, key+"="+value)
}

func (f *fragment) addInt(key string, value int) {
	f.add(key, fmt.Sprintf("%d", value))
}

// format joins the entries with '&'. The second value is false when there are
// no entries.
func (f fragment) format() (string, bool) {
	if len(f) == 0 {
		return "", false
	}
	return strings.Join(f, "&"), true
}

// Formatter is implemented by argument groups.
type Formatter interface {
	// Format the group as a query string fragment of key=value entries joined
	// by '&'. The second value is false when the group has no entries.
	Format() (string, bool)
}

// combine joins the fragments of the non-empty groups with '&', in the order
// of the groups.
func combine(groups ...Formatter) (string, bool) {
	var f fragment
	for _, g := range groups {
		if s, ok := g.Format(); ok {
			f = append(f, s)
		}
	}
	return f.format()
}

// DownloadType of the request.
type DownloadType string

const (
	DownloadPartial  = DownloadType("partial")
	DownloadComplete = DownloadType("complete")
)

// RequestArguments are the options common to all the requests. The zero value
// has no options.
type RequestArguments struct {
	apiKey       string
	downloadType DownloadType
}

// APIKey overrides the client's API key for this request. This and the other
// builder methods return a modified copy.
func (a RequestArguments) APIKey(key string) RequestArguments {
	a.apiKey = key
	return a
}

// DownloadType sets the download type, e.g. for the complete code list.
func (a RequestArguments) DownloadType(t DownloadType) RequestArguments {
	a.downloadType = t
	return a
}

// Key returns the API key override, if any.
func (a RequestArguments) Key() string {
	return a.apiKey
}

// Format the arguments as a query string fragment; false if empty.
func (a RequestArguments) Format() (string, bool) {
	var f fragment
	if a.apiKey != "" {
		f.add("api_key", url.QueryEscape(a.apiKey))
	}
	if a.downloadType != "" {
		f.add("download_type", string(a.downloadType))
	}
	return f.format()
}

// MaxPerPage is the largest page size of the search API.
const MaxPerPage = 100

// SearchArguments are the options of database and dataset searches. The zero
// value has no options.
type SearchArguments struct {
	keywords []string
	perPage  int
	page     int
}

// Query sets the search keywords.
func (a SearchArguments) Query(keywords ...string) SearchArguments {
	a.keywords = make([]string, len(keywords))
	copy(a.keywords, keywords)
	return a
}

// PerPage sets the number of results per page, [0..MaxPerPage]; 0 is the
// server default.
func (a SearchArguments) PerPage(n int) SearchArguments {
	if n < 0 {
		n = 0
	}
	if n > MaxPerPage {
		n = MaxPerPage
	}
	a.perPage = n
	return a
}

// Page selects the page of results, starting from 1; 0 is the server default.
func (a SearchArguments) Page(n int) SearchArguments {
	if n < 0 {
		n = 0
	}
	a.page = n
	return a
}

// Format the arguments as a query string fragment; false if empty.
func (a SearchArguments) Format() (string, bool) {
	var f fragment
	if len(a.keywords) > 0 {
		words := make([]string, len(a.keywords))
		for i, w := range a.keywords {
			words[i] = url.QueryEscape(w)
		}
		f.add("query", strings.Join(words, "+"))
	}
	if a.perPage != 0 {
		f.addInt("per_page", a.perPage)
	}
	if a.page != 0 {
		f.addInt("page", a.page)
	}
	return f.format()
}

// Order of the data rows by date.
type Order string

const (
	Ascending  = Order("asc")
	Descending = Order("desc")
)

// Collapse is the frequency to resample the data to.
type Collapse string

const (
	CollapseNone      = Collapse("none")
	CollapseDaily     = Collapse("daily")
	CollapseWeekly    = Collapse("weekly")
	CollapseMonthly   = Collapse("monthly")
	CollapseQuarterly = Collapse("quarterly")
	CollapseAnnual    = Collapse("annual")
)

// Transform is the calculation applied to the data before it is returned.
type Transform string

const (
	TransformNone      = Transform("none")
	TransformDiff      = Transform("diff")      // row-on-row change
	TransformRDiff     = Transform("rdiff")     // row-on-row % change
	TransformRDiffFrom = Transform("rdiff_from") // % change to the latest value
	TransformCumul     = Transform("cumul")     // cumulative sum
	TransformNormalize = Transform("normalize") // start at 100
)

var _ Formatter = RequestArguments{}
var _ Formatter = SearchArguments{}
var _ Formatter = DataArguments{}

var (
	orders     = []Order{Ascending, Descending}
	collapses  = []Collapse{CollapseNone, CollapseDaily, CollapseWeekly, CollapseMonthly, CollapseQuarterly, CollapseAnnual}
	transforms = []Transform{TransformNone, TransformDiff, TransformRDiff, TransformRDiffFrom, TransformCumul, TransformNormalize}
)

// ParseOrder checks that s is a valid Order.
func ParseOrder(s string) (Order, error) {
	if !slices.Contains(orders, Order(s)) {
		return "", errors.Reason("invalid order: '%s'", s)
	}
	return Order(s), nil
}

// ParseCollapse checks that s is a valid Collapse.
func ParseCollapse(s string) (Collapse, error) {
	if !slices.Contains(collapses, Collapse(s)) {
		return "", errors.Reason("invalid collapse: '%s'", s)
	}
	return Collapse(s), nil
}

// ParseTransform checks that s is a valid Transform.
func ParseTransform(s string) (Transform, error) {
	if !slices.Contains(transforms, Transform(s)) {
		return "", errors.Reason("invalid transform: '%s'", s)
	}
	return Transform(s), nil
}

// DataArguments select and shape the rows of a dataset. The zero value has no
// options.
type DataArguments struct {
	limit       int
	columnIndex *int
	startDate   date.Date
	endDate     date.Date
	order       Order
	collapse    Collapse
	transform   Transform
}

// Limit the number of returned rows; 0 means no limit.
func (a DataArguments) Limit(n int) DataArguments {
	if n < 0 {
		n = 0
	}
	a.limit = n
	return a
}

// ColumnIndex requests a single column in addition to the date column. Column
// 0 is the date column itself.
func (a DataArguments) ColumnIndex(i int) DataArguments {
	a.columnIndex = &i
	return a
}

// StartDate is the earliest date to return, inclusive.
func (a DataArguments) StartDate(d date.Date) DataArguments {
	a.startDate = d
	return a
}

// EndDate is the latest date to return, inclusive.
func (a DataArguments) EndDate(d date.Date) DataArguments {
	a.endDate = d
	return a
}

// Order sets the row ordering by date.
func (a DataArguments) Order(o Order) DataArguments {
	a.order = o
	return a
}

// Collapse sets the resampling frequency.
func (a DataArguments) Collapse(c Collapse) DataArguments {
	a.collapse = c
	return a
}

// Transform sets the data transformation.
func (a DataArguments) Transform(t Transform) DataArguments {
	a.transform = t
	return a
}

// Format the arguments as a query string fragment; false if empty.
func (a DataArguments) Format() (string, bool) {
	var f fragment
	if a.limit != 0 {
		f.addInt("limit", a.limit)
	}
	if a.columnIndex != nil {
		f.addInt("column_index", *a.columnIndex)
	}
	if !a.startDate.IsZero() {
		f.add("start_date", a.startDate.String())
	}
	if !a.endDate.IsZero() {
		f.add("end_date", a.endDate.String())
	}
	if a.order != "" {
		f.add("order", string(a.order))
	}
	if a.collapse != "" {
		f.add("collapse", string(a.collapse))
	}
	if a.transform != "" {
		f.add("transform", string(a.transform))
	}
	return f.format()
}
