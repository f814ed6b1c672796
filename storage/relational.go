package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/models"
)

// RelationalBackend implements Engine on top of GORM. The dialector decides
// the engine (sqlite file for local use, postgres when DB_URL is set); the
// behavior is the same for both because TranslateError maps driver errors to
// gorm's portable sentinels.
//
// Cascade deletes are enforced by the database itself: the models declare
// ON DELETE CASCADE constraints and, on sqlite, foreign key enforcement is
// switched on via the _foreign_keys DSN parameter (it is per-connection, so
// it must reach every connection the pool opens; see config.NewEngine). The
// backend never deletes dependent rows manually.
type RelationalBackend struct {
	dialector gorm.Dialector
	log       *logger.Logger
	db        *gorm.DB
}

var _ Engine = (*RelationalBackend)(nil)

func NewRelationalBackend(dialector gorm.Dialector, log *logger.Logger) *RelationalBackend {
	return &RelationalBackend{
		dialector: dialector,
		log:       log.With("component", "storage.relational"),
	}
}

// Init opens the connection and migrates the schema. Calling it on an
// already-initialized backend is a no-op; AutoMigrate itself is idempotent
// and never drops existing data.
func (r *RelationalBackend) Init(ctx context.Context) error {
	if r.db != nil {
		return nil
	}
	db, err := gorm.Open(r.dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if r.dialector.Name() == "sqlite" {
		// Guards the current connection when the DSN lacks _foreign_keys;
		// connections the pool opens later only get it from the DSN.
		if err := db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Note{}, &models.QuizHistory{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	r.db = db
	r.log.Info("relational backend initialized", "dialect", r.dialector.Name())
	return nil
}

func (r *RelationalBackend) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *RelationalBackend) conn() (*gorm.DB, error) {
	if r.db == nil {
		return nil, ErrNotInitialized
	}
	return r.db, nil
}

func (r *RelationalBackend) CreateUser(ctx context.Context, username, password string) (int64, error) {
	db, err := r.conn()
	if err != nil {
		return 0, err
	}
	user := models.User{
		Username:  username,
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("create user %q: %w", username, ErrDuplicateKey)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}

func (r *RelationalBackend) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	var user models.User
	err = db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

func (r *RelationalBackend) UpdateUserPhoto(ctx context.Context, userID int64, photoURI string) error {
	return r.updateUser(ctx, userID, map[string]interface{}{"photo_uri": photoURI})
}

func (r *RelationalBackend) UpdateUsername(ctx context.Context, userID int64, username string) error {
	return r.updateUser(ctx, userID, map[string]interface{}{"username": username})
}

func (r *RelationalBackend) UpdatePassword(ctx context.Context, userID int64, password string) error {
	return r.updateUser(ctx, userID, map[string]interface{}{"password": password})
}

// updateUser applies a field update. A missing id affects zero rows and is
// not an error.
func (r *RelationalBackend) updateUser(ctx context.Context, userID int64, fields map[string]interface{}) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	err = db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(fields).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("update user %d: %w", userID, ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("update user %d: %w", userID, err)
	}
	return nil
}

func (r *RelationalBackend) CreateNote(ctx context.Context, userID int64, publicID, title string) (int64, error) {
	db, err := r.conn()
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	note := models.Note{
		UserID:    userID,
		PublicID:  publicID,
		Title:     title,
		Content:   "",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return 0, fmt.Errorf("create note for user %d: %w", userID, ErrConstraint)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("create note: %w", ErrDuplicateKey)
		}
		return 0, fmt.Errorf("create note: %w", err)
	}
	return note.ID, nil
}

func (r *RelationalBackend) GetNotesByUserID(ctx context.Context, userID int64) ([]models.Note, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	notes := []models.Note{}
	err = db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("get notes for user %d: %w", userID, err)
	}
	return notes, nil
}

func (r *RelationalBackend) GetNoteByID(ctx context.Context, noteID int64) (*models.Note, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	var note models.Note
	err = db.WithContext(ctx).First(&note, noteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note %d: %w", noteID, err)
	}
	return &note, nil
}

func (r *RelationalBackend) UpdateNoteTitle(ctx context.Context, noteID int64, title string) error {
	return r.updateNote(ctx, noteID, map[string]interface{}{"title": title})
}

func (r *RelationalBackend) UpdateNoteContent(ctx context.Context, noteID int64, content string) error {
	return r.updateNote(ctx, noteID, map[string]interface{}{"content": content})
}

func (r *RelationalBackend) updateNote(ctx context.Context, noteID int64, fields map[string]interface{}) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	fields["updated_at"] = time.Now().UTC()
	err = db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", noteID).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update note %d: %w", noteID, err)
	}
	return nil
}

// DeleteNote removes the note in a single statement; the engine's ON DELETE
// CASCADE takes the quiz history rows with it, so the whole operation is
// atomic by construction.
func (r *RelationalBackend) DeleteNote(ctx context.Context, noteID int64) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(&models.Note{}, noteID).Error; err != nil {
		return fmt.Errorf("delete note %d: %w", noteID, err)
	}
	return nil
}

func (r *RelationalBackend) CreateQuizHistory(ctx context.Context, attempt QuizAttempt) (int64, error) {
	db, err := r.conn()
	if err != nil {
		return 0, err
	}
	quizJSON, answersJSON, err := EncodeQuizPayload(attempt.QuizData, attempt.UserAnswers)
	if err != nil {
		return 0, err
	}
	entry := models.QuizHistory{
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
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return 0, fmt.Errorf("create quiz history for note %d: %w", attempt.NoteID, ErrConstraint)
		}
		return 0, fmt.Errorf("create quiz history: %w", err)
	}
	return entry.ID, nil
}

func (r *RelationalBackend) GetQuizHistoryByNoteID(ctx context.Context, noteID int64) ([]models.QuizHistory, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	var rows []models.QuizHistory
	err = db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get quiz history for note %d: %w", noteID, err)
	}
	entries := make([]models.QuizHistory, 0, len(rows))
	for i := range rows {
		if err := decodeHistoryRow(&rows[i]); err != nil {
			r.log.Warn("skipping undecodable quiz history row", "id", rows[i].ID, "error", err)
			continue
		}
		entries = append(entries, rows[i])
	}
	return entries, nil
}

func (r *RelationalBackend) DeleteQuizHistoryByNoteID(ctx context.Context, noteID int64) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	err = db.WithContext(ctx).Where("note_id = ?", noteID).Delete(&models.QuizHistory{}).Error
	if err != nil {
		return fmt.Errorf("delete quiz history for note %d: %w", noteID, err)
	}
	return nil
}
