// Command loader bulk-ingests judgment documents into the corpus. It
// accepts CSV and XLSX exports (file_name + extracted_text columns) and
// individual PDF files; malformed rows are skipped and counted.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/avasant/legal-judgment-assistant/internal/bootstrap"
	"github.com/avasant/legal-judgment-assistant/internal/config"
	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/infrastructure/corpus"
	"github.com/avasant/legal-judgment-assistant/internal/observability/logging"
)

func main() {
	flag.Usage = func() {
		log.Printf("usage: loader <file.csv|file.xlsx|file.pdf> [more files...]")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	slog.SetDefault(logging.NewJSONLogger("loader", cfg.LogLevel))

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	var loaded, skipped, failed int
	for _, path := range flag.Args() {
		records, stats, err := readSource(path)
		if err != nil {
			slog.Error("load_source_failed", "path", path, "error", err)
			failed++
			continue
		}
		skipped += stats.Skipped

		for _, record := range records {
			_, err := app.Ingestor.IngestJudgment(ctx, domain.Judgment{
				FileName:      record.FileName,
				ExtractedText: record.ExtractedText,
			})
			if err != nil {
				slog.Warn("ingest_failed", "file_name", record.FileName, "error", err)
				skipped++
				continue
			}
			loaded++
		}
	}

	slog.Info("load_complete", "loaded", loaded, "skipped", skipped, "failed_sources", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func readSource(path string) ([]corpus.Record, corpus.LoadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, corpus.LoadStats{}, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return corpus.ReadCSV(file)
	case ".xlsx":
		return corpus.ReadXLSX(file)
	case ".pdf":
		record, err := corpus.ReadPDF(file, path)
		if err != nil {
			return nil, corpus.LoadStats{}, err
		}
		return []corpus.Record{record}, corpus.LoadStats{Loaded: 1}, nil
	default:
		return nil, corpus.LoadStats{}, errUnsupported(path)
	}
}

type errUnsupported string

func (e errUnsupported) Error() string {
	return "unsupported source format: " + string(e)
}
