package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

// TranscriptRepository archives completed conversation turns for audit.
// Archiving is best-effort at the call site; failures here never fail a
// query.
type TranscriptRepository struct {
	db *sql.DB
}

func NewTranscriptRepository(db *sql.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) ArchiveTurn(ctx context.Context, sessionID string, turn domain.ConversationTurn) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO transcripts (id, session_id, turn_index, question, analysis, asked_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, uuid.NewString(), sessionID, turn.Index, turn.Question, turn.Analysis, turn.AskedAt)
	if err != nil {
		return fmt.Errorf("archive turn: %w", err)
	}
	return nil
}

func (r *TranscriptRepository) ListTurns(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT turn_index, question, analysis, asked_at
FROM transcripts
WHERE session_id = $1
ORDER BY turn_index ASC
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ConversationTurn
	for rows.Next() {
		var turn domain.ConversationTurn
		if err := rows.Scan(&turn.Index, &turn.Question, &turn.Analysis, &turn.AskedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}
