package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/models"
)

func newMemory(t *testing.T) *MemoryBackend {
	t.Helper()
	m := NewMemoryBackend(logger.NewNop())
	require.NoError(t, m.Init(context.Background()))
	return m
}

func TestMemorySkipsUndecodableHistoryRow(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)

	userID, err := m.CreateUser(ctx, "alice", "pw")
	require.NoError(t, err)
	noteID, err := m.CreateNote(ctx, userID, "pub-1", "note")
	require.NoError(t, err)

	attempt := QuizAttempt{
		NoteID:         noteID,
		Score:          1,
		TotalQuestions: 1,
		Difficulty:     models.DifficultyEasy,
		QuizType:       models.QuizTypeTrueFalse,
		QuizData:       []models.QuizQuestion{{Question: "Q?", CorrectAnswer: "true"}},
		UserAnswers:    map[int]string{0: "true"},
	}
	badID, err := m.CreateQuizHistory(ctx, attempt)
	require.NoError(t, err)
	goodID, err := m.CreateQuizHistory(ctx, attempt)
	require.NoError(t, err)

	// Corrupt the first stored blob in place; the read must still return
	// the healthy row.
	for i := range m.history {
		if m.history[i].ID == badID {
			m.history[i].RawQuizData = "{corrupt"
		}
	}

	history, err := m.GetQuizHistoryByNoteID(ctx, noteID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, goodID, history[0].ID)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)

	userID, err := m.CreateUser(ctx, "bob", "pw")
	require.NoError(t, err)
	noteID, err := m.CreateNote(ctx, userID, "pub-1", "original")
	require.NoError(t, err)

	note, err := m.GetNoteByID(ctx, noteID)
	require.NoError(t, err)
	note.Title = "mutated by caller"

	stored, err := m.GetNoteByID(ctx, noteID)
	require.NoError(t, err)
	require.Equal(t, "original", stored.Title)
}

func TestMemoryIDCountersSurviveCascade(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)

	userID, err := m.CreateUser(ctx, "carol", "pw")
	require.NoError(t, err)

	noteID, err := m.CreateNote(ctx, userID, "pub-1", "note")
	require.NoError(t, err)
	_, err = m.CreateQuizHistory(ctx, QuizAttempt{
		NoteID:         noteID,
		Score:          0,
		TotalQuestions: 1,
		Difficulty:     models.DifficultyEasy,
		QuizType:       models.QuizTypeTrueFalse,
		QuizData:       []models.QuizQuestion{{Question: "Q?", CorrectAnswer: "true"}},
		UserAnswers:    map[int]string{},
	})
	require.NoError(t, err)

	require.NoError(t, m.DeleteNote(ctx, noteID))

	nextNote, err := m.CreateNote(ctx, userID, "pub-2", "next")
	require.NoError(t, err)
	require.Equal(t, noteID+1, nextNote)

	entryID, err := m.CreateQuizHistory(ctx, QuizAttempt{
		NoteID:         nextNote,
		Score:          0,
		TotalQuestions: 1,
		Difficulty:     models.DifficultyEasy,
		QuizType:       models.QuizTypeTrueFalse,
		QuizData:       []models.QuizQuestion{{Question: "Q?", CorrectAnswer: "true"}},
		UserAnswers:    map[int]string{},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), entryID)
}
