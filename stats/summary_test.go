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

package stats

import (
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	Convey("NewSummary", t, func() {
		Convey("typical sample", func() {
			data := []float64{4.0, 1.0, 3.0, 2.0, 5.0}
			s := NewSummary("Close", data)
			So(s.Name, ShouldEqual, "Close")
			So(s.Count, ShouldEqual, 5)
			So(s.Mean, ShouldEqual, 3.0)
			So(testutil.Round(s.StdDev, 4), ShouldEqual, 1.581)
			So(s.Min, ShouldEqual, 1.0)
			So(s.Median, ShouldEqual, 3.0)
			So(s.Max, ShouldEqual, 5.0)
			So(data, ShouldResemble, []float64{4.0, 1.0, 3.0, 2.0, 5.0})
		})

		Convey("single value", func() {
			s := NewSummary("x", []float64{7.5})
			So(s, ShouldResemble, Summary{
				Name: "x", Count: 1, Mean: 7.5, Min: 7.5, Median: 7.5, Max: 7.5})
		})

		Convey("empty", func() {
			So(NewSummary("x", nil), ShouldResemble, Summary{Name: "x"})
		})
	})

	Convey("CSV", t, func() {
		s := NewSummary("Close", []float64{1.0, 2.0, 3.0, 4.0})
		So(s.CSV(), ShouldResemble, []string{
			"Close", "4", "2.5", "1.29099", "1", "2", "4"})
		So(len(SummaryHeader()), ShouldEqual, len(s.CSV()))
	})
}
