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
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func zipCodes(content string) (string, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("codes.csv")
	if err != nil {
		return "", err
	}
	if _, err := f.Write([]byte(content)); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func TestMain(t *testing.T) {
	tmpdir, tmpdirErr := os.MkdirTemp("", "test_quandl_app")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		Convey("-database", func() {
			flags, err := parseFlags([]string{
				"-config", "path/to/config", "-log-level", "warning",
				"-database", "WIKI"})
			So(err, ShouldBeNil)
			So(flags.ConfigDir, ShouldEqual, "path/to/config")
			So(flags.LogLevel, ShouldEqual, logging.Warning)
			So(flags.Database, ShouldEqual, "WIKI")
			So(flags.Column, ShouldEqual, -1)
		})

		Convey("-data with options", func() {
			flags, err := parseFlags([]string{
				"-data", "WIKI/AAPL,WIKI/MSFT", "-start", "2017-01-01",
				"-limit", "10", "-order", "asc", "-summary"})
			So(err, ShouldBeNil)
			So(flags.LogLevel, ShouldEqual, logging.Info)
			So(flags.Data, ShouldResemble, []string{"WIKI/AAPL", "WIKI/MSFT"})
			So(flags.Start, ShouldEqual, "2017-01-01")
			So(flags.Limit, ShouldEqual, 10)
			So(flags.Summary, ShouldBeTrue)

			a, err := dataArguments(flags)
			So(err, ShouldBeNil)
			s, ok := a.Format()
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "limit=10&start_date=2017-01-01&order=asc")
		})

		Convey("search arguments", func() {
			flags, err := parseFlags([]string{
				"-search-databases", "-query", "oil  gas", "-per-page", "5"})
			So(err, ShouldBeNil)
			s, ok := searchArguments(flags).Format()
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "query=oil+gas&per_page=5")
		})

		Convey("invalid data options", func() {
			flags, err := parseFlags([]string{"-data", "WIKI/AAPL", "-order", "up"})
			So(err, ShouldBeNil)
			_, err = dataArguments(flags)
			So(err, ShouldNotBeNil)

			flags, err = parseFlags([]string{"-data", "WIKI/AAPL", "-end", "yesterday"})
			So(err, ShouldBeNil)
			_, err = dataArguments(flags)
			So(err, ShouldNotBeNil)
		})

		Convey("no command", func() {
			_, err := parseFlags([]string{"-csv"})
			So(err, ShouldNotBeNil)
		})

		Convey("two commands", func() {
			_, err := parseFlags([]string{"-database", "WIKI", "-codes", "WIKI"})
			So(err, ShouldNotBeNil)
		})

		Convey("-summary without data", func() {
			_, err := parseFlags([]string{"-database", "WIKI", "-summary"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("parseConfig", t, func() {
		Convey("missing file", func() {
			_, err := parseConfig(filepath.Join(tmpdir, "missing"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "does not exist")
		})

		Convey("key and URL", func() {
			dir := filepath.Join(tmpdir, "config")
			So(os.MkdirAll(dir, 0777), ShouldBeNil)
			So(testutil.WriteFile(filepath.Join(dir, "config.toml"), `
key = "secret"
url = "http://localhost/api/v3"
`), ShouldBeNil)
			c, err := parseConfig(dir)
			So(err, ShouldBeNil)
			So(c, ShouldResemble, &Config{Key: "secret", URL: "http://localhost/api/v3"})
		})

		Convey("malformed file", func() {
			dir := filepath.Join(tmpdir, "bad")
			So(os.MkdirAll(dir, 0777), ShouldBeNil)
			So(testutil.WriteFile(filepath.Join(dir, "config.toml"), "key = "), ShouldBeNil)
			_, err := parseConfig(dir)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("printData works", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()
		server.ResponseBody = []string{"{}"}

		ctx := fetch.UseClient(context.Background(), server.Client())
		configDir := filepath.Join(tmpdir, "server")
		So(os.MkdirAll(configDir, 0777), ShouldBeNil)
		So(testutil.WriteFile(filepath.Join(configDir, "config.toml"), fmt.Sprintf(`
key = "testkey"
url = "%s/api/v3"
`, server.URL())), ShouldBeNil)

		dataJSON := `{"dataset_data": {"column_names": ["Date", "Close"], "data": [
  ["2017-10-12", 1.5],
  ["2017-10-11", null],
  ["2017-10-10", 3],
  ["2017-10-09", 1.5]]}}`

		Convey("database", func() {
			server.ResponseBody = []string{`{"database": {"name": "Wiki EOD Stock Prices",
"database_code": "WIKI", "datasets_count": 3199, "premium": false}}`}
			flags, err := parseFlags([]string{"-config", configDir, "-database", "WIKI", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Field,Value
Code,WIKI
Name,Wiki EOD Stock Prices
Description,
Datasets,3199
Premium,false
`)
			So(server.RequestPath, ShouldEqual, "/api/v3/databases/WIKI.json")
			So(server.RequestQuery, ShouldResemble, url.Values{"api_key": {"testkey"}})
		})

		Convey("search datasets", func() {
			server.ResponseBody = []string{`{"datasets": [
{"database_code": "WIKI", "dataset_code": "AAPL", "name": "Apple Inc",
 "oldest_available_date": "1980-12-12", "newest_available_date": "2018-03-27",
 "frequency": "daily"}]}`}
			flags, err := parseFlags([]string{"-config", configDir,
				"-search-datasets", "WIKI", "-query", "apple", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Code,Name,Oldest,Newest,Frequency
WIKI/AAPL,Apple Inc,1980-12-12,2018-03-27,daily
`)
			So(server.RequestPath, ShouldEqual, "/api/v3/datasets.json")
			So(server.RequestQuery, ShouldResemble, url.Values{
				"api_key":       {"testkey"},
				"query":         {"apple"},
				"database_code": {"WIKI"},
			})
		})

		Convey("codes", func() {
			body, err := zipCodes("WIKI/AAPL,Apple Inc\nWIKI/MSFT,Microsoft\n")
			So(err, ShouldBeNil)
			server.ResponseBody = []string{body}
			flags, err := parseFlags([]string{"-config", configDir, "-codes", "WIKI", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Database,Dataset,Name
WIKI,AAPL,Apple Inc
WIKI,MSFT,Microsoft
`)
			So(server.RequestPath, ShouldEqual, "/api/v3/databases/WIKI/codes")
		})

		Convey("single dataset", func() {
			server.ResponseBody = []string{dataJSON}
			flags, err := parseFlags([]string{"-config", configDir,
				"-data", "WIKI/AAPL", "-limit", "4", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Date,Close
2017-10-12,1.5
2017-10-11,
2017-10-10,3
2017-10-09,1.5
`)
			So(server.RequestPath, ShouldEqual, "/api/v3/datasets/WIKI/AAPL/data.json")
			So(server.RequestQuery, ShouldResemble, url.Values{
				"api_key": {"testkey"},
				"limit":   {"4"},
			})
		})

		Convey("multiple datasets", func() {
			server.ResponseBody = []string{dataJSON, dataJSON}
			flags, err := parseFlags([]string{"-config", configDir,
				"-data", "WIKI/MSFT,WIKI/AAPL", "-end", "2017-10-10", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Dataset,Date,Close
WIKI/AAPL,2017-10-12,1.5
WIKI/AAPL,2017-10-11,
WIKI/AAPL,2017-10-10,3
WIKI/AAPL,2017-10-09,1.5
WIKI/MSFT,2017-10-12,1.5
WIKI/MSFT,2017-10-11,
WIKI/MSFT,2017-10-10,3
WIKI/MSFT,2017-10-09,1.5
`)
		})

		Convey("summary", func() {
			server.ResponseBody = []string{dataJSON}
			flags, err := parseFlags([]string{"-config", configDir,
				"-data", "WIKI/AAPL", "-summary", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Column,Count,Mean,StdDev,Min,Median,Max
WIKI/AAPL Close,3,2,0.866025,1.5,1.5,3
`)
		})

		Convey("data and metadata", func() {
			server.ResponseBody = []string{`{"dataset": {
"database_code": "WIKI", "dataset_code": "AAPL", "name": "Apple Inc",
"column_names": ["Date", "Close"], "frequency": "daily",
"data": [["2017-10-12", 156.99]]}}`}
			flags, err := parseFlags([]string{"-config", configDir, "-full", "WIKI/AAPL"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Code         WIKI/AAPL")
			So(buf.String(), ShouldContainSubstring, "2017-10-12  156.99")
			So(server.RequestPath, ShouldEqual, "/api/v3/datasets/WIKI/AAPL.json")
		})

		Convey("API error", func() {
			server.ResponseStatus = []int{404}
			server.ResponseBody = []string{
				`{"quandl_error": {"code": "QECx02", "message": "bad code"}}`}
			flags, err := parseFlags([]string{"-config", configDir, "-dataset", "WIKI/NONE"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			err = printData(ctx, flags, &buf)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "QECx02 bad code")
			So(buf.String(), ShouldEqual, "")
		})
	})
}
