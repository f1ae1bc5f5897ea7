package decode

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DecodeXLSX reads the first sheet of an XLSX workbook. The first row is the
// header, as with CSV.
func DecodeXLSX(data []byte) ([]string, []map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	return rows[0], rowsToMaps(rows[0], rows[1:]), nil
}
