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
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
)

type contextKey int

const (
	clientContextKey contextKey = iota
	transportContextKey
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://data.nasdaq.com/api/v3"

// Transport sends a request for the path, which includes the query string if
// any, and returns the response body.
type Transport interface {
	Send(ctx context.Context, path string) ([]byte, error)
}

// Client for querying Quandl databases and datasets. It is the default
// Transport, and uses the HTTP client of the fetch package from the context.
type Client struct {
	baseURL string        // the base URL of the server
	apiKey  string        // your very own secret key
	params  *fetch.Params // retry policy; nil means fetch.NewParams()
}

var _ Transport = &Client{}

// newClient creates a new client.
func newClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client based on the API key and injects it into the
// context. An empty key is allowed for the free datasets.
func UseClient(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL, apiKey))
}

// UseTransport injects a custom Transport into the context. It takes
// precedence over the Client.
func UseTransport(ctx context.Context, t Transport) context.Context {
	return context.WithValue(ctx, transportContextKey, t)
}

// getTransport returns the Transport to send queries with.
func getTransport(ctx context.Context) Transport {
	if t, ok := ctx.Value(transportContextKey).(Transport); ok {
		return t
	}
	if c := GetClient(ctx); c != nil {
		return c
	}
	return nil
}

// quandlError is the body of a failed API response.
type quandlError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"quandl_error"`
}

// newStatusError creates a TransportError for a non-2xx response, extracting
// the API error from the body when possible.
func newStatusError(status int, body []byte) *TransportError {
	e := &TransportError{Status: status}
	var qe quandlError
	if err := json.Unmarshal(body, &qe); err == nil {
		e.Code = qe.Error.Code
		e.Message = qe.Error.Message
	}
	return e
}

// get sends a single GET request and reads the whole response body. Only 5xx
// responses and truncated bodies are retriable; any other non-2xx status is
// returned with its body and a nil error.
func get(ctx context.Context, client *http.Client, uri string) (status int, body []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return 0, nil, errors.Annotate(err, "failed to create HTTP request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, errors.Annotate(err, "failed to GET URL")
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fetch.NewRetriableError(
			errors.Annotate(err, "failed to read response body"))
	}
	if fetch.ResponseRetriable(resp) {
		return resp.StatusCode, body, fetch.NewRetriableError(
			errors.Reason("response code %s", resp.Status))
	}
	return resp.StatusCode, body, nil
}

// Send implements Transport. It adds the client's API key unless the path
// already has one. Server errors (5xx) are retried according to the client's
// retry parameters.
func (c *Client) Send(ctx context.Context, path string) ([]byte, error) {
	p, rawQuery, _ := strings.Cut(path, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, &TransportError{
			Err: errors.Annotate(err, "invalid query string in '%s'", p)}
	}
	if query.Get("api_key") == "" && c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}
	uri := c.baseURL + p
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	client := http.DefaultClient
	if hc := fetch.GetClient(ctx); hc != nil {
		client = hc
	}
	params := c.params
	if params == nil {
		params = fetch.NewParams()
	}
	logging.Debugf(ctx, "Quandl: GET %s", p)

	var status int
	var body []byte
	err = fetch.Retry(ctx, params, func(attempt int) error {
		var err error
		status, body, err = get(ctx, client, uri)
		if err != nil && params.IsRetriable(err) && attempt < params.NumRetries {
			logging.Warningf(ctx, "Quandl: retrying %s: %s", p, err.Error())
		}
		return err
	})
	if status != 0 && !(200 <= status && status <= 299) {
		e := newStatusError(status, body)
		e.Err = err
		return nil, e
	}
	if err != nil {
		return nil, &TransportError{
			Status: status,
			Err:    errors.Annotate(err, "failed to fetch %s", p),
		}
	}
	logging.Debugf(ctx, "Quandl: received %d bytes from %s", len(body), p)
	return body, nil
}
