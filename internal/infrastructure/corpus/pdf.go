package corpus

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReadPDF extracts the plain text of a single judgment PDF. The record is
// keyed by the file's base name so repeat loads of the same file upsert.
func ReadPDF(r io.Reader, path string) (Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Record{}, fmt.Errorf("pdf: read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return Record{}, fmt.Errorf("pdf: %s is empty", path)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return Record{}, fmt.Errorf("pdf: parse %s: %w", path, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return Record{}, fmt.Errorf("pdf: extract %s: %w", path, err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return Record{}, fmt.Errorf("pdf: read text of %s: %w", path, err)
	}

	trimmed := strings.TrimSpace(string(text))
	if trimmed == "" {
		return Record{}, fmt.Errorf("pdf: %s has no extractable text", path)
	}
	return Record{
		FileName:      filepath.Base(path),
		ExtractedText: trimmed,
	}, nil
}
