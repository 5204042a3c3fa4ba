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

// Package stats computes summary statistics of numeric data columns.
package stats

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary of a numeric sample, typically a column of a dataset.
type Summary struct {
	Name   string // column name, for display
	Count  int
	Mean   float64
	StdDev float64 // sample standard deviation; 0 for fewer than 2 samples
	Min    float64
	Median float64
	Max    float64
}

// NewSummary computes the statistics of the data. The data is not modified.
// Empty data yields a zero Summary with only the name set.
func NewSummary(name string, data []float64) Summary {
	s := Summary{Name: name, Count: len(data)}
	if len(data) == 0 {
		return s
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	slices.Sort(sorted)

	if len(data) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	} else {
		s.Mean = data[0]
	}
	s.Min = floats.Min(data)
	s.Max = floats.Max(data)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return s
}

// SummaryHeader is the table header matching Summary.CSV().
func SummaryHeader() []string {
	return []string{"Column", "Count", "Mean", "StdDev", "Min", "Median", "Max"}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// CSV representation of the Summary.
func (s Summary) CSV() []string {
	return []string{
		s.Name,
		fmt.Sprintf("%d", s.Count),
		formatFloat(s.Mean),
		formatFloat(s.StdDev),
		formatFloat(s.Min),
		formatFloat(s.Median),
		formatFloat(s.Max),
	}
}
