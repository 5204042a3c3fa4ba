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

// Package date implements calendar date and timestamp values as they appear in
// Quandl requests and responses.
package date

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockparfait/errors"
)

// Timestamps come as "2017-10-12T21:43:06.604Z" and dates as "2017-10-12".
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts any of the layouts. An all-zero date is the zero time.
func parseTime(s string) (time.Time, error) {
	if s == "0000-00-00" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func isNull(data []byte) bool {
	return string(data) == "null"
}

// Date is a calendar day. The zero value means "no date".
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = &Date{}

func NewDate(year uint16, month, day uint8) Date {
	return Date{Year: year, Month: month, Day: day}
}

// NewDateFromString parses a Date, ignoring the time of day if present.
func NewDateFromString(s string) (Date, error) {
	t, err := parseTime(s)
	if err != nil {
		return Date{}, errors.Annotate(err, "failed to parse date '%s'", s)
	}
	if t.IsZero() {
		return Date{}, nil
	}
	return NewDate(uint16(t.Year()), uint8(t.Month()), uint8(t.Day())), nil
}

// String is the YYYY-MM-DD wire format.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON leaves d unchanged for JSON null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "date must be a JSON string")
	}
	date, err := NewDateFromString(s)
	if err != nil {
		return err
	}
	*d = date
	return nil
}

// Before is true when d is strictly earlier than d2.
func (d Date) Before(d2 Date) bool {
	if d.Year != d2.Year {
		return d.Year < d2.Year
	}
	if d.Month != d2.Month {
		return d.Month < d2.Month
	}
	return d.Day < d2.Day
}

// After is true when d is strictly later than d2.
func (d Date) After(d2 Date) bool {
	return d2.Before(d)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Time is a timestamp such as the refresh time of a dataset.
type Time time.Time

var _ json.Unmarshaler = &Time{}

// NewTime creates a UTC timestamp.
func NewTime(year, month, day, hour, minute, second int) *Time {
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	return (*Time)(&t)
}

func (t *Time) String() string {
	return time.Time(*t).Format("2006-01-02 15:04:05")
}

// UnmarshalJSON leaves t unchanged for JSON null.
func (t *Time) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "timestamp must be a JSON string")
	}
	tm, err := parseTime(s)
	if err != nil {
		return errors.Annotate(err, "failed to parse timestamp '%s'", s)
	}
	*t = Time(tm)
	return nil
}
