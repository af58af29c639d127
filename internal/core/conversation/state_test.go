package conversation

import (
	"testing"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

func TestAppendThenHistoryReturnsLastTurn(t *testing.T) {
	state := NewState()

	state.Append(domain.ConversationTurn{Question: "q1", Analysis: "a1"})
	appended := state.Append(domain.ConversationTurn{Question: "q2", Analysis: "a2"})

	history := state.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	last := history[len(history)-1]
	if last.Question != appended.Question || last.Analysis != appended.Analysis || last.Index != appended.Index {
		t.Fatalf("last turn %+v does not match appended %+v", last, appended)
	}
	if appended.Index != 1 {
		t.Fatalf("expected index 1, got %d", appended.Index)
	}
	if appended.AskedAt.IsZero() {
		t.Fatalf("expected AskedAt to be stamped")
	}
}

func TestClearYieldsEmptyHistory(t *testing.T) {
	state := NewState()
	state.Append(domain.ConversationTurn{Question: "q", Analysis: "a"})

	state.Clear()
	if got := state.History(); len(got) != 0 {
		t.Fatalf("expected empty history after Clear, got %d turns", len(got))
	}

	// Indexing restarts from zero after a reset.
	turn := state.Append(domain.ConversationTurn{Question: "q2", Analysis: "a2"})
	if turn.Index != 0 {
		t.Fatalf("expected index 0 after clear, got %d", turn.Index)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	state := NewState()
	state.Append(domain.ConversationTurn{Question: "q", Analysis: "a"})

	history := state.History()
	history[0].Question = "mutated"

	if state.History()[0].Question != "q" {
		t.Fatalf("History() must not expose internal storage")
	}
}

func TestWindowKeepsTrailingTurns(t *testing.T) {
	turns := []domain.ConversationTurn{
		{Index: 0, Question: "q0"},
		{Index: 1, Question: "q1"},
		{Index: 2, Question: "q2"},
	}

	got := Window(turns, 2)
	if len(got) != 2 || got[0].Index != 1 || got[1].Index != 2 {
		t.Fatalf("unexpected window: %+v", got)
	}
	if got := Window(turns, 10); len(got) != 3 {
		t.Fatalf("expected full slice when n exceeds length, got %d", len(got))
	}
	if got := Window(turns, 0); got != nil {
		t.Fatalf("expected nil window for n=0, got %+v", got)
	}
}

func TestRegistrySessionsAreIndependent(t *testing.T) {
	registry := NewRegistry()

	a := registry.Create()
	b := registry.Create()
	if a.ID == b.ID {
		t.Fatalf("expected distinct session ids")
	}

	a.State.Append(domain.ConversationTurn{Question: "q", Analysis: "a"})
	if b.State.Len() != 0 {
		t.Fatalf("appending to one session must not affect another")
	}

	if !registry.Remove(a.ID) {
		t.Fatalf("expected Remove to report success")
	}
	if _, ok := registry.Get(a.ID); ok {
		t.Fatalf("expected session to be gone after Remove")
	}
	if registry.Remove(a.ID) {
		t.Fatalf("expected second Remove to report failure")
	}
}
