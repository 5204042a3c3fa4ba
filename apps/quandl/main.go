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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/quandl/date"
	"github.com/stockparfait/quandl/quandl"
	"github.com/stockparfait/quandl/stats"
	"github.com/stockparfait/quandl/table"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	ConfigDir string // default: ~/.stockparfait/quandl
	LogLevel  logging.Level
	// Exactly one of the following must be present.
	Database        string // database code to print metadata for
	Dataset         string // DB/DS code to print metadata for
	SearchDatabases bool
	SearchDatasets  string   // database code to search in
	Codes           string   // database code to list datasets of
	Data            []string // DB/DS codes to download data for
	Full            string   // DB/DS code to download data and metadata for
	// Search options.
	Query   string
	PerPage int
	Page    int
	// Data options.
	Start     string
	End       string
	Limit     int
	Column    int // -1 = all columns
	Order     string
	Collapse  string
	Transform string
	// Output options.
	Summary bool
	CSV     bool
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	var data string
	fs := flag.NewFlagSet("quandl", flag.ExitOnError)
	fs.StringVar(&flags.ConfigDir, "config",
		filepath.Join(os.Getenv("HOME"), ".stockparfait", "quandl"),
		"directory with config.toml")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.StringVar(&flags.Database, "database", "", "print metadata of the database")
	fs.StringVar(&flags.Dataset, "dataset", "", "print metadata of the DB/DS dataset")
	fs.BoolVar(&flags.SearchDatabases, "search-databases", false, "search databases")
	fs.StringVar(&flags.SearchDatasets, "search-datasets", "", "search datasets of the database")
	fs.StringVar(&flags.Codes, "codes", "", "list all dataset codes of the database")
	fs.StringVar(&data, "data", "", "comma-separated DB/DS datasets to download")
	fs.StringVar(&flags.Full, "full", "", "download data and metadata of the DB/DS dataset")
	fs.StringVar(&flags.Query, "query", "", "space-separated search keywords")
	fs.IntVar(&flags.PerPage, "per-page", 0, "search results per page")
	fs.IntVar(&flags.Page, "page", 0, "search results page, starting from 1")
	fs.StringVar(&flags.Start, "start", "", "start date, YYYY-MM-DD")
	fs.StringVar(&flags.End, "end", "", "end date, YYYY-MM-DD")
	fs.IntVar(&flags.Limit, "limit", 0, "max. number of data rows")
	fs.IntVar(&flags.Column, "column", -1, "return only this data column")
	fs.StringVar(&flags.Order, "order", "", "data order: asc, desc")
	fs.StringVar(&flags.Collapse, "collapse", "",
		"resample: none, daily, weekly, monthly, quarterly, annual")
	fs.StringVar(&flags.Transform, "transform", "",
		"transform: none, diff, rdiff, rdiff_from, cumul, normalize")
	fs.BoolVar(&flags.Summary, "summary", false, "print data column statistics")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if data != "" {
		flags.Data = strings.Split(data, ",")
	}
	kinds := 0
	for _, present := range []bool{
		flags.Database != "",
		flags.Dataset != "",
		flags.SearchDatabases,
		flags.SearchDatasets != "",
		flags.Codes != "",
		len(flags.Data) > 0,
		flags.Full != "",
	} {
		if present {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errors.Reason("expected exactly one of -database, -dataset, " +
			"-search-databases, -search-datasets, -codes, -data or -full")
	}
	if flags.Summary && len(flags.Data) == 0 && flags.Full == "" {
		return nil, errors.Reason("-summary requires -data or -full")
	}
	return &flags, nil
}

type Config struct {
	Key string `toml:"key"` // user key for Quandl
	URL string `toml:"url"` // optional API base URL
}

func parseConfig(dir string) (*Config, error) {
	filePath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `key = "YourSecretQuandlKey"
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		} else {
			return nil, errors.Annotate(err,
				"cannot check config file for existence: '%s'", filePath)
		}
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	return &c, nil
}

func searchArguments(flags *Flags) quandl.SearchArguments {
	var a quandl.SearchArguments
	if flags.Query != "" {
		a = a.Query(strings.Fields(flags.Query)...)
	}
	return a.PerPage(flags.PerPage).Page(flags.Page)
}

func dataArguments(flags *Flags) (quandl.DataArguments, error) {
	a := quandl.DataArguments{}.Limit(flags.Limit)
	if flags.Column >= 0 {
		a = a.ColumnIndex(flags.Column)
	}
	if flags.Start != "" {
		d, err := date.NewDateFromString(flags.Start)
		if err != nil {
			return a, errors.Annotate(err, "invalid -start")
		}
		a = a.StartDate(d)
	}
	if flags.End != "" {
		d, err := date.NewDateFromString(flags.End)
		if err != nil {
			return a, errors.Annotate(err, "invalid -end")
		}
		a = a.EndDate(d)
	}
	if flags.Order != "" {
		o, err := quandl.ParseOrder(flags.Order)
		if err != nil {
			return a, errors.Annotate(err, "invalid -order")
		}
		a = a.Order(o)
	}
	if flags.Collapse != "" {
		c, err := quandl.ParseCollapse(flags.Collapse)
		if err != nil {
			return a, errors.Annotate(err, "invalid -collapse")
		}
		a = a.Collapse(c)
	}
	if flags.Transform != "" {
		t, err := quandl.ParseTransform(flags.Transform)
		if err != nil {
			return a, errors.Annotate(err, "invalid -transform")
		}
		a = a.Transform(t)
	}
	return a, nil
}

// field is a name-value row of a metadata table.
type field [2]string

func (f field) CSV() []string { return f[:] }

func fieldsTable(fields ...field) *table.Table {
	tbl := table.NewTable("Field", "Value")
	for _, f := range fields {
		tbl.AddRow(f)
	}
	return tbl
}

func databaseFields(m *quandl.DatabaseMetadata) *table.Table {
	return fieldsTable(
		field{"Code", m.DatabaseCode},
		field{"Name", m.Name},
		field{"Description", m.Description},
		field{"Datasets", fmt.Sprintf("%d", m.DatasetsCount)},
		field{"Premium", fmt.Sprintf("%t", m.Premium)},
	)
}

func datasetFields(m *quandl.DatasetMetadata) *table.Table {
	return fieldsTable(
		field{"Code", m.DatabaseCode + "/" + m.DatasetCode},
		field{"Name", m.Name},
		field{"Description", m.Description},
		field{"Refreshed", m.RefreshedAt.String()},
		field{"Oldest", m.OldestAvailableDate.String()},
		field{"Newest", m.NewestAvailableDate.String()},
		field{"Columns", strings.Join(m.ColumnNames, ", ")},
		field{"Frequency", m.Frequency},
		field{"Premium", fmt.Sprintf("%t", m.Premium)},
	)
}

type databaseRow quandl.DatabaseMetadata

func (r databaseRow) CSV() []string {
	return []string{r.DatabaseCode, r.Name, fmt.Sprintf("%d", r.DatasetsCount),
		fmt.Sprintf("%t", r.Premium)}
}

type datasetRow quandl.DatasetMetadata

func (r datasetRow) CSV() []string {
	return []string{r.DatabaseCode + "/" + r.DatasetCode, r.Name,
		r.OldestAvailableDate.String(), r.NewestAvailableDate.String(), r.Frequency}
}

// codedRow prefixes a data row with its dataset code.
type codedRow struct {
	Code string
	Row  quandl.Row
}

func (r codedRow) CSV() []string {
	return append([]string{r.Code}, r.Row.CSV()...)
}

type dataResult struct {
	Code string
	Data *quandl.Data[quandl.Row]
	Err  error
}

// fetchData downloads the datasets concurrently. The results are sorted by
// code.
func fetchData(ctx context.Context, codes []string, args quandl.DataArguments) ([]dataResult, error) {
	f := func(code string) dataResult {
		db, ds, err := quandl.SplitCode(code)
		if err != nil {
			return dataResult{Code: code, Err: err}
		}
		d, err := quandl.FetchData[quandl.Row](ctx, quandl.NewDataQuery(db, ds).WithData(args))
		if err != nil {
			return dataResult{Code: code, Err: errors.Annotate(err, "failed to fetch %s", code)}
		}
		logging.Infof(ctx, "downloaded %d rows of %s", len(d.Data), code)
		return dataResult{Code: code, Data: d}
	}
	pm := iterator.ParallelMap(ctx, 2*runtime.NumCPU(), iterator.FromSlice(codes), f)
	defer pm.Close()

	results := iterator.Reduce[dataResult, []dataResult](pm, []dataResult{},
		func(r dataResult, rs []dataResult) []dataResult {
			return append(rs, r)
		})
	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Code < results[j].Code })
	return results, nil
}

// summaries of the numeric columns of the data; the date column is skipped.
func summaries(ctx context.Context, code string, columns []string, rows []quandl.Row) []table.Row {
	var res []table.Row
	if len(rows) == 0 {
		return res
	}
	for i := 1; i < len(rows[0]); i++ {
		name := fmt.Sprintf("%d", i)
		if i < len(columns) {
			name = columns[i]
		}
		col, err := quandl.Column(rows, i)
		if err != nil {
			logging.Warningf(ctx, "skipping %s column %s: %s", code, name, err.Error())
			continue
		}
		res = append(res, stats.NewSummary(code+" "+name, col))
	}
	return res
}

func dataTables(ctx context.Context, flags *Flags) ([]*table.Table, error) {
	args, err := dataArguments(flags)
	if err != nil {
		return nil, err
	}
	results, err := fetchData(ctx, flags.Data, args)
	if err != nil {
		return nil, err
	}
	if flags.Summary {
		tbl := table.NewTable(stats.SummaryHeader()...)
		for _, r := range results {
			tbl.AddRow(summaries(ctx, r.Code, r.Data.ColumnNames, r.Data.Data)...)
		}
		return []*table.Table{tbl}, nil
	}
	if len(results) == 1 {
		tbl := table.NewTable(results[0].Data.ColumnNames...)
		for _, row := range results[0].Data.Data {
			tbl.AddRow(row)
		}
		return []*table.Table{tbl}, nil
	}
	tbl := table.NewTable(append([]string{"Dataset"}, results[0].Data.ColumnNames...)...)
	for _, r := range results {
		for _, row := range r.Data.Data {
			tbl.AddRow(codedRow{Code: r.Code, Row: row})
		}
	}
	return []*table.Table{tbl}, nil
}

func fullTables(ctx context.Context, flags *Flags) ([]*table.Table, error) {
	db, ds, err := quandl.SplitCode(flags.Full)
	if err != nil {
		return nil, errors.Annotate(err, "invalid -full")
	}
	args, err := dataArguments(flags)
	if err != nil {
		return nil, err
	}
	d, err := quandl.FetchDataAndMetadata[quandl.Row](ctx,
		quandl.NewDataAndMetadataQuery(db, ds).WithData(args))
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch %s", flags.Full)
	}
	tbl := table.NewTable(d.ColumnNames...)
	if flags.Summary {
		tbl = table.NewTable(stats.SummaryHeader()...)
		tbl.AddRow(summaries(ctx, flags.Full, d.ColumnNames, d.Data)...)
	} else {
		for _, row := range d.Data {
			tbl.AddRow(row)
		}
	}
	return []*table.Table{datasetFields(&d.DatasetMetadata), tbl}, nil
}

// query sends the query selected by the flags and formats its results.
func query(ctx context.Context, flags *Flags) ([]*table.Table, error) {
	switch {
	case flags.Database != "":
		m, err := quandl.FetchDatabaseMetadata(ctx, quandl.NewDatabaseMetadataQuery(flags.Database))
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch database %s", flags.Database)
		}
		return []*table.Table{databaseFields(m)}, nil

	case flags.Dataset != "":
		db, ds, err := quandl.SplitCode(flags.Dataset)
		if err != nil {
			return nil, errors.Annotate(err, "invalid -dataset")
		}
		m, err := quandl.FetchDatasetMetadata(ctx, quandl.NewDatasetMetadataQuery(db, ds))
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch dataset %s", flags.Dataset)
		}
		return []*table.Table{datasetFields(m)}, nil

	case flags.SearchDatabases:
		l, err := quandl.SearchDatabases(ctx,
			quandl.NewDatabaseSearch().WithSearch(searchArguments(flags)))
		if err != nil {
			return nil, errors.Annotate(err, "failed to search databases")
		}
		tbl := table.NewTable("Code", "Name", "Datasets", "Premium")
		for _, m := range l {
			tbl.AddRow(databaseRow(m))
		}
		return []*table.Table{tbl}, nil

	case flags.SearchDatasets != "":
		l, err := quandl.SearchDatasets(ctx,
			quandl.NewDatasetSearch(flags.SearchDatasets).WithSearch(searchArguments(flags)))
		if err != nil {
			return nil, errors.Annotate(err, "failed to search datasets")
		}
		tbl := table.NewTable("Code", "Name", "Oldest", "Newest", "Frequency")
		for _, m := range l {
			tbl.AddRow(datasetRow(m))
		}
		return []*table.Table{tbl}, nil

	case flags.Codes != "":
		codes, err := quandl.FetchCodes(ctx, quandl.NewCodeListQuery(flags.Codes))
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch codes of %s", flags.Codes)
		}
		logging.Infof(ctx, "downloaded %d codes", len(codes))
		tbl := table.NewTable(quandl.CodeHeader()...)
		for _, c := range codes {
			tbl.AddRow(c)
		}
		return []*table.Table{tbl}, nil

	case len(flags.Data) > 0:
		return dataTables(ctx, flags)

	case flags.Full != "":
		return fullTables(ctx, flags)
	}
	return nil, errors.Reason("no query")
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.ConfigDir)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	if config.URL != "" {
		quandl.URL = config.URL
	}
	ctx = quandl.UseClient(ctx, config.Key)

	tables, err := query(ctx, flags)
	if err != nil {
		return err
	}
	for i, tbl := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return errors.Annotate(err, "failed to write")
			}
		}
		if flags.CSV {
			if err := tbl.WriteCSV(w, table.Params{}); err != nil {
				return errors.Annotate(err, "failed to print CSV")
			}
			continue
		}
		if err := tbl.WriteText(w, table.Params{}); err != nil {
			return errors.Annotate(err, "failed to print text")
		}
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, "%s", err.Error())
		os.Exit(1)
	}
}
