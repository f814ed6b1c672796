package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/models"
)

func newRelational(t *testing.T) *RelationalBackend {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	r := NewRelationalBackend(sqlite.Open(dsn), logger.NewNop())
	require.NoError(t, r.Init(context.Background()))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRelationalSkipsUndecodableHistoryRow(t *testing.T) {
	ctx := context.Background()
	r := newRelational(t)

	userID, err := r.CreateUser(ctx, "alice", "pw")
	require.NoError(t, err)
	noteID, err := r.CreateNote(ctx, userID, "pub-1", "note")
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
	badID, err := r.CreateQuizHistory(ctx, attempt)
	require.NoError(t, err)
	goodID, err := r.CreateQuizHistory(ctx, attempt)
	require.NoError(t, err)

	err = r.db.Exec("UPDATE quiz_history SET quiz_data = ? WHERE id = ?", "{corrupt", badID).Error
	require.NoError(t, err)

	history, err := r.GetQuizHistoryByNoteID(ctx, noteID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, goodID, history[0].ID)
}

func TestRelationalCascadeIsEngineEnforced(t *testing.T) {
	ctx := context.Background()
	r := newRelational(t)

	userID, err := r.CreateUser(ctx, "bob", "pw")
	require.NoError(t, err)
	noteID, err := r.CreateNote(ctx, userID, "pub-1", "note")
	require.NoError(t, err)
	_, err = r.CreateQuizHistory(ctx, QuizAttempt{
		NoteID:         noteID,
		Score:          0,
		TotalQuestions: 1,
		Difficulty:     models.DifficultyEasy,
		QuizType:       models.QuizTypeTrueFalse,
		QuizData:       []models.QuizQuestion{{Question: "Q?", CorrectAnswer: "true"}},
		UserAnswers:    map[int]string{},
	})
	require.NoError(t, err)

	// Delete through raw SQL, bypassing the backend entirely. The cascade
	// still fires because the schema owns it.
	require.NoError(t, r.db.Exec("DELETE FROM notes WHERE id = ?", noteID).Error)

	var count int64
	require.NoError(t, r.db.Model(&models.QuizHistory{}).Where("note_id = ?", noteID).Count(&count).Error)
	require.Zero(t, count)
}

// Foreign-key enforcement on sqlite is a per-connection setting. The DSN
// parameter is what carries it to connections the pool opens after Init, so
// cascade and orphan rejection must hold even on a brand-new connection.
func TestRelationalForeignKeysHoldAcrossPooledConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rotation.db")
	r := NewRelationalBackend(sqlite.Open(path+"?_foreign_keys=on"), logger.NewNop())
	require.NoError(t, r.Init(ctx))
	t.Cleanup(func() { r.Close() })

	userID, err := r.CreateUser(ctx, "carol", "pw")
	require.NoError(t, err)
	noteID, err := r.CreateNote(ctx, userID, "pub-1", "note")
	require.NoError(t, err)
	_, err = r.CreateQuizHistory(ctx, QuizAttempt{
		NoteID:         noteID,
		Score:          1,
		TotalQuestions: 1,
		Difficulty:     models.DifficultyEasy,
		QuizType:       models.QuizTypeTrueFalse,
		QuizData:       []models.QuizQuestion{{Question: "Q?", CorrectAnswer: "true"}},
		UserAnswers:    map[int]string{0: "true"},
	})
	require.NoError(t, err)

	// Cycle the pool so everything below runs on fresh connections that
	// never saw Init's pragma.
	sqlDB, err := r.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetMaxIdleConns(2)

	var enforced int
	require.NoError(t, r.db.Raw("PRAGMA foreign_keys").Scan(&enforced).Error)
	require.Equal(t, 1, enforced)

	require.NoError(t, r.DeleteNote(ctx, noteID))

	var count int64
	require.NoError(t, r.db.Model(&models.QuizHistory{}).Where("note_id = ?", noteID).Count(&count).Error)
	require.Zero(t, count)

	_, err = r.CreateQuizHistory(ctx, QuizAttempt{
		NoteID:         noteID,
		Score:          0,
		TotalQuestions: 1,
		Difficulty:     models.DifficultyEasy,
		QuizType:       models.QuizTypeTrueFalse,
		QuizData:       []models.QuizQuestion{{Question: "Q?", CorrectAnswer: "true"}},
		UserAnswers:    map[int]string{},
	})
	require.ErrorIs(t, err, ErrConstraint)
}
