package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

// JudgmentRepository persists the corpus of court judgments and serves
// lexical search over it via Postgres full-text search.
type JudgmentRepository struct {
	db *sql.DB
}

func NewJudgmentRepository(db *sql.DB) *JudgmentRepository {
	return &JudgmentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *JudgmentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/indexer startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082401)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS judgments (
	file_name TEXT PRIMARY KEY,
	extracted_text TEXT NOT NULL,
	ingested_at TIMESTAMPTZ NOT NULL,
	search_vector TSVECTOR GENERATED ALWAYS AS (to_tsvector('english', extracted_text)) STORED
);

CREATE INDEX IF NOT EXISTS idx_judgments_search_vector ON judgments USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_judgments_ingested_at ON judgments(ingested_at DESC);

CREATE TABLE IF NOT EXISTS transcripts (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	turn_index INTEGER NOT NULL,
	question TEXT NOT NULL,
	analysis TEXT NOT NULL,
	asked_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transcripts_session ON transcripts(session_id, turn_index);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Upsert implements ports.JudgmentRepository. Re-ingesting a file replaces
// its text so a corrected extraction wins.
func (r *JudgmentRepository) Upsert(ctx context.Context, judgment *domain.Judgment) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO judgments (file_name, extracted_text, ingested_at)
VALUES ($1, $2, $3)
ON CONFLICT (file_name) DO UPDATE
SET extracted_text = EXCLUDED.extracted_text, ingested_at = EXCLUDED.ingested_at
`, judgment.FileName, judgment.ExtractedText, judgment.IngestedAt)
	if err != nil {
		return fmt.Errorf("upsert judgment: %w", err)
	}
	return nil
}

func (r *JudgmentRepository) GetByFileName(ctx context.Context, fileName string) (*domain.Judgment, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT file_name, extracted_text, ingested_at
FROM judgments
WHERE file_name = $1
`, fileName)

	var judgment domain.Judgment
	err := row.Scan(&judgment.FileName, &judgment.ExtractedText, &judgment.IngestedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrJudgmentNotFound, "get judgment", fmt.Errorf("file %q", fileName))
		}
		return nil, fmt.Errorf("scan judgment: %w", err)
	}
	return &judgment, nil
}

func (r *JudgmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM judgments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count judgments: %w", err)
	}
	return count, nil
}

// snippetLength bounds how much judgment text a single retrieved case
// contributes to the prompt.
const snippetLength = 2000

// SearchRanked implements ports.LexicalSearcher. Results carry
// ChunkIndex -1 because lexical hits address whole judgments, not
// vector chunks.
func (r *JudgmentRepository) SearchRanked(ctx context.Context, query string, limit int) ([]domain.RetrievedCase, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT file_name, LEFT(extracted_text, $3), ts_rank_cd(search_vector, websearch_to_tsquery('english', $1)) AS rank
FROM judgments
WHERE search_vector @@ websearch_to_tsquery('english', $1)
ORDER BY rank DESC, file_name ASC
LIMIT $2
`, query, limit, snippetLength)
	if err != nil {
		return nil, fmt.Errorf("search judgments: %w", err)
	}
	defer rows.Close()

	var cases []domain.RetrievedCase
	for rows.Next() {
		var retrieved domain.RetrievedCase
		if err := rows.Scan(&retrieved.FileName, &retrieved.Snippet, &retrieved.Score); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		retrieved.ChunkIndex = -1
		cases = append(cases, retrieved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search hits: %w", err)
	}

	if len(cases) == 0 {
		// Distinguish "no match" from "nothing ingested yet".
		count, err := r.Count(ctx)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.WrapError(domain.ErrEmptyCorpus, "search judgments", fmt.Errorf("no judgments ingested"))
		}
	}
	return cases, nil
}
