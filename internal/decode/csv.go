package decode

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// DecodeCSV reads a CSV byte stream. The first row is the header; headers
// are returned raw (the caller normalizes for validation), row keys are
// normalized.
func DecodeCSV(data []byte) ([]string, []map[string]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	lineNum := 1
	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		rows = append(rows, row)
	}

	return header, rowsToMaps(header, rows), nil
}
