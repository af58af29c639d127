package corpus

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads judgment records from the first sheet of an XLSX export.
// The same header contract as ReadCSV applies.
func ReadXLSX(r io.Reader) ([]Record, LoadStats, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("xlsx: open: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, LoadStats{}, fmt.Errorf("xlsx: no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("xlsx: read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, LoadStats{}, fmt.Errorf("xlsx: empty sheet")
	}

	nameCol, textCol := -1, -1
	for i, col := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "file_name", "filename":
			nameCol = i
		case "extracted_text", "text":
			textCol = i
		}
	}
	if nameCol < 0 || textCol < 0 {
		return nil, LoadStats{}, fmt.Errorf("xlsx: header must name file_name and extracted_text columns, got %v", rows[0])
	}

	var records []Record
	var stats LoadStats
	for _, row := range rows[1:] {
		if nameCol >= len(row) || textCol >= len(row) {
			stats.Skipped++
			continue
		}
		fileName := strings.TrimSpace(row[nameCol])
		text := strings.TrimSpace(row[textCol])
		if fileName == "" || text == "" {
			stats.Skipped++
			continue
		}
		records = append(records, Record{FileName: fileName, ExtractedText: text})
		stats.Loaded++
	}
	return records, stats, nil
}
