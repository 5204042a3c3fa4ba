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
	"testing"

	"github.com/stockparfait/quandl/date"

	. "github.com/smartystreets/goconvey/convey"
)

func TestArguments(t *testing.T) {
	t.Parallel()

	Convey("Empty groups format to nothing", t, func() {
		for _, g := range []Formatter{RequestArguments{}, SearchArguments{}, DataArguments{}} {
			s, ok := g.Format()
			So(ok, ShouldBeFalse)
			So(s, ShouldEqual, "")
		}
	})

	Convey("RequestArguments", t, func() {
		a := RequestArguments{}
		a2 := a.DownloadType(DownloadComplete).APIKey("k3y")
		_, ok := a.Format()
		So(ok, ShouldBeFalse)
		s, ok := a2.Format()
		So(ok, ShouldBeTrue)
		So(s, ShouldEqual, "api_key=k3y&download_type=complete")
		So(a2.Key(), ShouldEqual, "k3y")
	})

	Convey("SearchArguments", t, func() {
		Convey("all options in declared order", func() {
			a := SearchArguments{}.Page(2).PerPage(10).Query("crude", "oil")
			s, ok := a.Format()
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "query=crude+oil&per_page=10&page=2")
		})

		Convey("keywords are escaped", func() {
			s, ok := SearchArguments{}.Query("S&P").Format()
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "query=S%26P")
		})

		Convey("page size is clamped", func() {
			s, _ := SearchArguments{}.PerPage(1000).Format()
			So(s, ShouldEqual, "per_page=100")
			_, ok := SearchArguments{}.PerPage(-1).Page(-5).Format()
			So(ok, ShouldBeFalse)
		})

		Convey("keywords are copied", func() {
			words := []string{"gold"}
			a := SearchArguments{}.Query(words...)
			words[0] = "silver"
			s, _ := a.Format()
			So(s, ShouldEqual, "query=gold")
		})
	})

	Convey("DataArguments", t, func() {
		Convey("all options in declared order", func() {
			a := DataArguments{}.
				Transform(TransformRDiff).
				Collapse(CollapseMonthly).
				Order(Ascending).
				EndDate(date.NewDate(2017, 12, 31)).
				StartDate(date.NewDate(2017, 1, 1)).
				ColumnIndex(4).
				Limit(10)
			s, ok := a.Format()
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "limit=10&column_index=4&start_date=2017-01-01&"+
				"end_date=2017-12-31&order=asc&collapse=monthly&transform=rdiff")
		})

		Convey("column index 0 is an option", func() {
			s, ok := DataArguments{}.ColumnIndex(0).Format()
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "column_index=0")
		})

		Convey("builders do not modify the original", func() {
			a := DataArguments{}.Limit(3)
			a2 := a.Order(Descending)
			s, _ := a.Format()
			So(s, ShouldEqual, "limit=3")
			s, _ = a2.Format()
			So(s, ShouldEqual, "limit=3&order=desc")
		})
	})

	Convey("Enum parsers", t, func() {
		o, err := ParseOrder("desc")
		So(err, ShouldBeNil)
		So(o, ShouldEqual, Descending)
		_, err = ParseOrder("up")
		So(err, ShouldNotBeNil)

		c, err := ParseCollapse("quarterly")
		So(err, ShouldBeNil)
		So(c, ShouldEqual, CollapseQuarterly)
		_, err = ParseCollapse("hourly")
		So(err, ShouldNotBeNil)

		tr, err := ParseTransform("rdiff_from")
		So(err, ShouldBeNil)
		So(tr, ShouldEqual, TransformRDiffFrom)
		_, err = ParseTransform("log")
		So(err, ShouldNotBeNil)
	})
}
