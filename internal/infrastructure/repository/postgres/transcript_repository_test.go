package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

func TestArchiveTurnInsertsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	repo := &TranscriptRepository{db: db}

	askedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO transcripts").
		WithArgs(sqlmock.AnyArg(), "session-1", 2, "What did the court hold?", "The court held...", askedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.ArchiveTurn(context.Background(), "session-1", domain.ConversationTurn{
		Index:    2,
		Question: "What did the court hold?",
		Analysis: "The court held...",
		AskedAt:  askedAt,
	})
	if err != nil {
		t.Fatalf("ArchiveTurn() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListTurnsOrderedByIndex(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	repo := &TranscriptRepository{db: db}

	askedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"turn_index", "question", "analysis", "asked_at"}).
		AddRow(0, "first", "answer one", askedAt).
		AddRow(1, "second", "answer two", askedAt.Add(time.Minute))
	mock.ExpectQuery("SELECT turn_index, question, analysis, asked_at").
		WithArgs("session-1").
		WillReturnRows(rows)

	turns, err := repo.ListTurns(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("ListTurns() error = %v", err)
	}
	if len(turns) != 2 || turns[0].Question != "first" || turns[1].Index != 1 {
		t.Fatalf("unexpected turns: %+v", turns)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
