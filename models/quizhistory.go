package models

import "time"

// Quiz difficulty levels accepted by the generator and stored on history rows.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Quiz question formats.
const (
	QuizTypeMultipleChoice = "multiple-choice"
	QuizTypeTrueFalse      = "true-false"
)

// QuizHistory records one completed quiz for a note. The question set and
// the user's answer map are persisted as JSON text in RawQuizData and
// RawUserAnswers; the storage layer decodes them into QuizData and
// UserAnswers on read.
type QuizHistory struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NoteID         int64     `gorm:"column:note_id;not null;index" json:"note_id"`
	Score          int       `gorm:"column:score;not null" json:"score"`
	TotalQuestions int       `gorm:"column:total_questions;not null" json:"total_questions"`
	Difficulty     string    `gorm:"column:difficulty;not null;size:20" json:"difficulty"`
	QuizType       string    `gorm:"column:quiz_type;not null;size:20" json:"quiz_type"`
	RawQuizData    string    `gorm:"column:quiz_data;type:text;not null" json:"-"`
	RawUserAnswers string    `gorm:"column:user_answers;type:text;not null" json:"-"`
	TimerDuration  int       `gorm:"column:timer_duration;default:0" json:"timer_duration"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`

	QuizData    []QuizQuestion `gorm:"-" json:"quiz_data"`
	UserAnswers map[int]string `gorm:"-" json:"user_answers"`

	Note Note `gorm:"foreignKey:NoteID" json:"-"`
}

func (QuizHistory) TableName() string {
	return "quiz_history"
}

// ValidDifficulty reports whether d is one of the accepted difficulty levels.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// ValidQuizType reports whether t is one of the accepted quiz formats.
func ValidQuizType(t string) bool {
	return t == QuizTypeMultipleChoice || t == QuizTypeTrueFalse
}
