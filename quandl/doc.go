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

// Package quandl implements a typed client for the Quandl database and dataset
// API (now served by Nasdaq Data Link as its time-series API).
//
// Official documentation is at https://docs.data.nasdaq.com/docs/time-series .
//
// Each endpoint has its own query type, e.g. DataQuery for the time-series
// data of a single dataset. A query knows its URL path and merges its optional
// argument groups (RequestArguments, SearchArguments, DataArguments) into a
// query string. All queries are values: the builder methods return modified
// copies, leaving the original intact.
//
// Queries are sent by the Fetch* and Search* functions using the Client from
// the context, see UseClient. Every JSON response of the API is an object with
// exactly one key, e.g. {"dataset": {...}}, which is unwrapped to its value.
// The code list endpoint returns a zip archive with a headerless CSV file of
// "DATABASE/DATASET,name" rows, which is decoded into Code records.
//
// Decoding failures are reported as *ParseError, and failures of the HTTP
// layer as *TransportError. Neither is retried here; the underlying fetch
// package retries transient HTTP failures.
package quandl
