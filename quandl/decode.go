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
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"unicode/utf8"
)

// unwrapJSON decodes a JSON object with exactly one key and returns its value
// decoded as T. The key itself, typically the resource name such as "dataset",
// is not checked.
func unwrapJSON[T any](data []byte) (*T, error) {
	if !utf8.Valid(data) {
		return nil, parseErrorf("response is not valid UTF-8")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, parseErrorf("%s", err.Error())
	}
	if len(obj) != 1 {
		return nil, parseErrorf("expected a single element, got %d", len(obj))
	}
	var res T
	for _, v := range obj {
		if err := json.Unmarshal(v, &res); err != nil {
			return nil, parseErrorf("%s", err.Error())
		}
	}
	return &res, nil
}

// unzipText reads and concatenates the text of all the files in the zip
// archive, in the archive order. A newline is inserted after a file whose text
// doesn't end with one, so rows of different files are never merged.
func unzipText(data []byte) (string, error) {
	r := bytes.NewReader(data)
	z, err := zip.NewReader(r, r.Size())
	if err != nil {
		return "", parseErrorf("%s", err.Error())
	}
	var sb strings.Builder
	for _, f := range z.File {
		rc, err := f.Open()
		if err != nil {
			return "", parseErrorf("failed to open '%s' in archive: %s", f.Name, err.Error())
		}
		text, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", parseErrorf("failed to read '%s' in archive: %s", f.Name, err.Error())
		}
		if !utf8.Valid(text) {
			return "", parseErrorf("'%s' in archive is not valid UTF-8", f.Name)
		}
		sb.Write(text)
		if len(text) > 0 && text[len(text)-1] != '\n' {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// errInvalidCodeFormat is reported for a code which is not DATABASE/DATASET.
const errInvalidCodeFormat = "invalid format for dataset codes in unzipped code list"

// decodeCodes decodes the zipped CSV of "DATABASE/DATASET,name" rows. The first
// error aborts decoding, and no codes are returned.
func decodeCodes(data []byte) ([]Code, error) {
	text, err := unzipText(data)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = 2
	codes := []Code{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseErrorf("%s", err.Error())
		}
		databaseCode, datasetCode, err := SplitCode(record[0])
		if err != nil {
			return nil, parseErrorf(errInvalidCodeFormat)
		}
		codes = append(codes, Code{
			DatabaseCode: databaseCode,
			DatasetCode:  datasetCode,
			Name:         record[1],
		})
	}
	return codes, nil
}
