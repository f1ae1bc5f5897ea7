// Package decode turns raw CSV/XLSX bytes into header names and key-value
// rows. Row keys are the trimmed, lowercased header names; cell values are
// trimmed. Validation of the decoded rows belongs to the schema package.
package decode

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Decode dispatches on the file extension (.csv, .xlsx, .xls).
func Decode(filename string, data []byte) ([]string, []map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return DecodeCSV(data)
	case ".xlsx", ".xls":
		return DecodeXLSX(data)
	default:
		return nil, nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

// rowsToMaps zips each data row with the normalized headers, padding short
// rows with empty strings.
func rowsToMaps(headers []string, rows [][]string) []map[string]string {
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(keys))
		for i, key := range keys {
			if key == "" {
				continue
			}
			if i < len(row) {
				m[key] = strings.TrimSpace(row[i])
			} else {
				m[key] = ""
			}
		}
		out = append(out, m)
	}
	return out
}
