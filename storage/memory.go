package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/models"
)

// MemoryBackend implements Engine with in-process collections. It exists for
// environments where no database engine is available and reproduces every
// relational semantic by hand: username uniqueness by linear scan,
// parent-existence checks in place of foreign keys, manual cascade on note
// deletion, explicit sort for list ordering, and per-table id counters that
// only ever increase.
//
// All mutations happen under one mutex, so multi-step operations (delete +
// cascade) cannot interleave with anything else.
type MemoryBackend struct {
	log *logger.Logger

	mu          sync.Mutex
	initialized bool

	users   []models.User
	notes   []models.Note
	history []models.QuizHistory

	nextUserID    int64
	nextNoteID    int64
	nextHistoryID int64
}

var _ Engine = (*MemoryBackend)(nil)

func NewMemoryBackend(log *logger.Logger) *MemoryBackend {
	return &MemoryBackend{log: log.With("component", "storage.memory")}
}

// Init establishes the empty collections. A second call is a no-op and keeps
// whatever has been written since.
func (m *MemoryBackend) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return nil
	}
	m.users = []models.User{}
	m.notes = []models.Note{}
	m.history = []models.QuizHistory{}
	m.nextUserID = 1
	m.nextNoteID = 1
	m.nextHistoryID = 1
	m.initialized = true
	m.log.Info("in-memory backend initialized")
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}

func (m *MemoryBackend) CreateUser(ctx context.Context, username, password string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return 0, ErrNotInitialized
	}
	for i := range m.users {
		if m.users[i].Username == username {
			return 0, fmt.Errorf("create user %q: %w", username, ErrDuplicateKey)
		}
	}
	user := models.User{
		ID:        m.nextUserID,
		Username:  username,
		Password:  password,
		PhotoURI:  nil,
		CreatedAt: time.Now().UTC(),
	}
	m.nextUserID++
	m.users = append(m.users, user)
	return user.ID, nil
}

func (m *MemoryBackend) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	for i := range m.users {
		if m.users[i].Username == username {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

func (m *MemoryBackend) UpdateUserPhoto(ctx context.Context, userID int64, photoURI string) error {
	return m.updateUser(userID, func(u *models.User) error {
		uri := photoURI
		u.PhotoURI = &uri
		return nil
	})
}

func (m *MemoryBackend) UpdateUsername(ctx context.Context, userID int64, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return ErrNotInitialized
	}
	for i := range m.users {
		if m.users[i].Username == username && m.users[i].ID != userID {
			return fmt.Errorf("update user %d: %w", userID, ErrDuplicateKey)
		}
	}
	for i := range m.users {
		if m.users[i].ID == userID {
			m.users[i].Username = username
			return nil
		}
	}
	// Missing id is a silent no-op, matching the relational backend.
	return nil
}

func (m *MemoryBackend) UpdatePassword(ctx context.Context, userID int64, password string) error {
	return m.updateUser(userID, func(u *models.User) error {
		u.Password = password
		return nil
	})
}

func (m *MemoryBackend) updateUser(userID int64, apply func(*models.User) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return ErrNotInitialized
	}
	for i := range m.users {
		if m.users[i].ID == userID {
			return apply(&m.users[i])
		}
	}
	return nil
}

func (m *MemoryBackend) CreateNote(ctx context.Context, userID int64, publicID, title string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return 0, ErrNotInitialized
	}
	if !m.userExistsLocked(userID) {
		return 0, fmt.Errorf("create note for user %d: %w", userID, ErrConstraint)
	}
	now := time.Now().UTC()
	note := models.Note{
		ID:        m.nextNoteID,
		UserID:    userID,
		PublicID:  publicID,
		Title:     title,
		Content:   "",
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.nextNoteID++
	m.notes = append(m.notes, note)
	return note.ID, nil
}

func (m *MemoryBackend) GetNotesByUserID(ctx context.Context, userID int64) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	notes := []models.Note{}
	for i := range m.notes {
		if m.notes[i].UserID == userID {
			notes = append(notes, m.notes[i])
		}
	}
	// Same ordering the relational backend gets from
	// ORDER BY updated_at DESC, id DESC.
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].ID > notes[j].ID
	})
	return notes, nil
}

func (m *MemoryBackend) GetNoteByID(ctx context.Context, noteID int64) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	for i := range m.notes {
		if m.notes[i].ID == noteID {
			note := m.notes[i]
			return &note, nil
		}
	}
	return nil, nil
}

func (m *MemoryBackend) UpdateNoteTitle(ctx context.Context, noteID int64, title string) error {
	return m.updateNote(noteID, func(n *models.Note) {
		n.Title = title
	})
}

func (m *MemoryBackend) UpdateNoteContent(ctx context.Context, noteID int64, content string) error {
	return m.updateNote(noteID, func(n *models.Note) {
		n.Content = content
	})
}

func (m *MemoryBackend) updateNote(noteID int64, apply func(*models.Note)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return ErrNotInitialized
	}
	for i := range m.notes {
		if m.notes[i].ID == noteID {
			apply(&m.notes[i])
			m.notes[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return nil
}

// DeleteNote removes the note and cascades to its quiz history in the same
// critical section.
func (m *MemoryBackend) DeleteNote(ctx context.Context, noteID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return ErrNotInitialized
	}
	for i := range m.notes {
		if m.notes[i].ID == noteID {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			m.history = m.historyWithoutNoteLocked(noteID)
			return nil
		}
	}
	return nil
}

func (m *MemoryBackend) CreateQuizHistory(ctx context.Context, attempt QuizAttempt) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return 0, ErrNotInitialized
	}
	if !m.noteExistsLocked(attempt.NoteID) {
		return 0, fmt.Errorf("create quiz history for note %d: %w", attempt.NoteID, ErrConstraint)
	}
	quizJSON, answersJSON, err := EncodeQuizPayload(attempt.QuizData, attempt.UserAnswers)
	if err != nil {
		return 0, err
	}
	entry := models.QuizHistory{
		ID:             m.nextHistoryID,
		NoteID:         attempt.NoteID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Difficulty:     attempt.Difficulty,
		QuizType:       attempt.QuizType,
		RawQuizData:    quizJSON,
		RawUserAnswers: answersJSON,
		TimerDuration:  attempt.TimerDuration,
		CreatedAt:      time.Now().UTC(),
	}
	m.nextHistoryID++
	m.history = append(m.history, entry)
	return entry.ID, nil
}

func (m *MemoryBackend) GetQuizHistoryByNoteID(ctx context.Context, noteID int64) ([]models.QuizHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	entries := []models.QuizHistory{}
	for i := range m.history {
		if m.history[i].NoteID != noteID {
			continue
		}
		entry := m.history[i]
		if err := decodeHistoryRow(&entry); err != nil {
			m.log.Warn("skipping undecodable quiz history row", "id", entry.ID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}

func (m *MemoryBackend) DeleteQuizHistoryByNoteID(ctx context.Context, noteID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return ErrNotInitialized
	}
	m.history = m.historyWithoutNoteLocked(noteID)
	return nil
}

func (m *MemoryBackend) userExistsLocked(userID int64) bool {
	for i := range m.users {
		if m.users[i].ID == userID {
			return true
		}
	}
	return false
}

func (m *MemoryBackend) noteExistsLocked(noteID int64) bool {
	for i := range m.notes {
		if m.notes[i].ID == noteID {
			return true
		}
	}
	return false
}

func (m *MemoryBackend) historyWithoutNoteLocked(noteID int64) []models.QuizHistory {
	kept := m.history[:0:0]
	for i := range m.history {
		if m.history[i].NoteID != noteID {
			kept = append(kept, m.history[i])
		}
	}
	return kept
}
