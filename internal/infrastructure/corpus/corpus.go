// Package corpus reads judgment documents out of the bulk formats the
// court archive ships: CSV and XLSX exports, plus individual PDF files.
package corpus

// Record is one judgment read from a bulk source, keyed by file name.
type Record struct {
	FileName      string
	ExtractedText string
}

// LoadStats reports how a bulk load went. Malformed rows are skipped and
// counted rather than failing the whole file.
type LoadStats struct {
	Loaded  int
	Skipped int
}
