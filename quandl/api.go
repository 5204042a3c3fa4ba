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
	"context"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// send the query with the Transport from the context and return the raw
// response body.
func send(ctx context.Context, q Query) ([]byte, error) {
	t := getTransport(ctx)
	if t == nil {
		return nil, &TransportError{Err: errors.Reason("no client in context")}
	}
	return t.Send(ctx, Path(q))
}

// fetchJSON sends the query and decodes the single-key JSON response.
func fetchJSON[T any](ctx context.Context, q Query) (*T, error) {
	data, err := send(ctx, q)
	if err != nil {
		return nil, err
	}
	return unwrapJSON[T](data)
}

// FetchDatabaseMetadata obtains the metadata of a database.
func FetchDatabaseMetadata(ctx context.Context, q *DatabaseMetadataQuery) (*DatabaseMetadata, error) {
	return fetchJSON[DatabaseMetadata](ctx, q)
}

// FetchDatasetMetadata obtains the metadata of a dataset.
func FetchDatasetMetadata(ctx context.Context, q *DatasetMetadataQuery) (*DatasetMetadata, error) {
	return fetchJSON[DatasetMetadata](ctx, q)
}

// SearchDatabases returns a page of matching databases.
func SearchDatabases(ctx context.Context, q *DatabaseSearch) (DatabaseList, error) {
	l, err := fetchJSON[DatabaseList](ctx, q)
	if err != nil {
		return nil, err
	}
	return *l, nil
}

// SearchDatasets returns a page of matching datasets of the database.
func SearchDatasets(ctx context.Context, q *DatasetSearch) (DatasetList, error) {
	l, err := fetchJSON[DatasetList](ctx, q)
	if err != nil {
		return nil, err
	}
	return *l, nil
}

// FetchData downloads the time-series of a dataset with rows of type T, e.g.:
//
//	data, err := FetchData[Row](ctx, NewDataQuery("WIKI", "AAPL"))
func FetchData[T any](ctx context.Context, q *DataQuery) (*Data[T], error) {
	d, err := fetchJSON[Data[T]](ctx, q)
	if err != nil {
		return nil, err
	}
	logging.Debugf(ctx, "Quandl: decoded %d rows of %s", len(d.Data), q.Prefix())
	return d, nil
}

// FetchDataAndMetadata downloads the time-series of a dataset together with
// its metadata.
func FetchDataAndMetadata[T any](ctx context.Context, q *DataAndMetadataQuery) (*DataAndMetadata[T], error) {
	return fetchJSON[DataAndMetadata[T]](ctx, q)
}

// FetchCodes downloads the list of all the dataset codes in a database.
func FetchCodes(ctx context.Context, q *CodeListQuery) ([]Code, error) {
	data, err := send(ctx, q)
	if err != nil {
		return nil, err
	}
	codes, err := decodeCodes(data)
	if err != nil {
		return nil, err
	}
	logging.Debugf(ctx, "Quandl: decoded %d codes from %s", len(codes), q.Prefix())
	return codes, nil
}
