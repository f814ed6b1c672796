// Package storage defines the persistence contract for users, notes and quiz
// history, and provides two interchangeable backends: a relational one built
// on GORM (sqlite or postgres) and an in-memory one used where no database
// engine is available. Both backends implement identical semantics; the
// cross-backend tests in engine_test.go are the reference for what
// "identical" means.
package storage

import (
	"context"
	"errors"

	"github.com/andrewpaige1/autoquiz-api/models"
)

var (
	// ErrDuplicateKey is returned when an insert or update would violate a
	// uniqueness constraint (currently only users.username).
	ErrDuplicateKey = errors.New("storage: duplicate key")

	// ErrNotInitialized is returned by every operation invoked before Init.
	ErrNotInitialized = errors.New("storage: not initialized")

	// ErrSerialization is returned when a quiz payload or answer map cannot
	// be encoded, or a stored blob cannot be decoded.
	ErrSerialization = errors.New("storage: serialization failed")

	// ErrConstraint is returned when a write references a parent row that
	// does not exist.
	ErrConstraint = errors.New("storage: constraint violation")
)

// QuizAttempt carries everything needed to record one completed quiz.
// QuizData and UserAnswers are serialized by the backend before storage.
type QuizAttempt struct {
	NoteID         int64
	Score          int
	TotalQuestions int
	Difficulty     string
	QuizType       string
	QuizData       []models.QuizQuestion
	UserAnswers    map[int]string
	TimerDuration  int
}

// Engine is the sole persistence API surface. Absent lookups return a nil
// pointer or empty slice, never an error. Update operations on a missing id
// succeed silently with no effect; callers that care must look the row up
// first.
//
// The backend behind an Engine is chosen once at construction and never
// switched.
type Engine interface {
	// Init prepares the backend (creates schema, or establishes the empty
	// in-memory collections). Calling it again is a no-op and never wipes
	// existing data.
	Init(ctx context.Context) error
	Close() error

	CreateUser(ctx context.Context, username, password string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserPhoto(ctx context.Context, userID int64, photoURI string) error
	UpdateUsername(ctx context.Context, userID int64, username string) error
	UpdatePassword(ctx context.Context, userID int64, password string) error

	CreateNote(ctx context.Context, userID int64, publicID, title string) (int64, error)
	GetNotesByUserID(ctx context.Context, userID int64) ([]models.Note, error)
	GetNoteByID(ctx context.Context, noteID int64) (*models.Note, error)
	UpdateNoteTitle(ctx context.Context, noteID int64, title string) error
	UpdateNoteContent(ctx context.Context, noteID int64, content string) error
	// DeleteNote removes the note and every quiz history row that references
	// it, atomically.
	DeleteNote(ctx context.Context, noteID int64) error

	CreateQuizHistory(ctx context.Context, attempt QuizAttempt) (int64, error)
	// GetQuizHistoryByNoteID returns entries newest first with QuizData and
	// UserAnswers already decoded. A row whose stored blob fails to decode is
	// skipped; it never fails the read for the remaining rows.
	GetQuizHistoryByNoteID(ctx context.Context, noteID int64) ([]models.QuizHistory, error)
	DeleteQuizHistoryByNoteID(ctx context.Context, noteID int64) error
}
