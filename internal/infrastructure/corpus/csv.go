package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads judgment records from a CSV export. The header row must
// name a file_name and an extracted_text column (any order, extra columns
// ignored). Rows missing either value are skipped, not fatal.
func ReadCSV(r io.Reader) ([]Record, LoadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, LoadStats{}, fmt.Errorf("csv: empty file")
		}
		return nil, LoadStats{}, fmt.Errorf("csv: read header: %w", err)
	}

	nameCol, textCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "file_name", "filename":
			nameCol = i
		case "extracted_text", "text":
			textCol = i
		}
	}
	if nameCol < 0 || textCol < 0 {
		return nil, LoadStats{}, fmt.Errorf("csv: header must name file_name and extracted_text columns, got %v", header)
	}

	var records []Record
	var stats LoadStats
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Keep going past a single bad row; the parser resyncs on
			// the next line.
			stats.Skipped++
			continue
		}

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
