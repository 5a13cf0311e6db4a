package graphio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
)

// LoadNames reads the vertex name table: a two-column CSV of user id and
// display name. A header row is tolerated and skipped.
func LoadNames(path string) (map[int64]string, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &FormatError{Path: path, Cause: err}
	}

	names := make(map[int64]string, len(records))
	for i, record := range records {
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, &FormatError{Path: path, Cause: fmt.Errorf("row %d: %q is not a user id", i+1, record[0])}
		}
		names[id] = record[1]
	}
	return names, nil
}

// SaveNames writes the vertex name table as CSV with a header row, sorted by
// user id so reruns produce identical files.
func SaveNames(path string, names map[int64]string) error {
	ids := make([]int64, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"id", "name"}); err != nil {
		return err
	}
	for _, id := range ids {
		if err := writer.Write([]string{strconv.FormatInt(id, 10), names[id]}); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	return WriteFile(path, buf.Bytes())
}
