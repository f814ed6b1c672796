package storage

import (
	"encoding/json"
	"fmt"

	"github.com/andrewpaige1/autoquiz-api/models"
)

// EncodeQuizPayload serializes a question set and an answer map to the JSON
// text form stored in the quiz_data and user_answers columns. The encoding
// is lossless: DecodeQuizData and DecodeUserAnswers return values deep-equal
// to the originals.
func EncodeQuizPayload(questions []models.QuizQuestion, answers map[int]string) (string, string, error) {
	quizJSON, err := json.Marshal(questions)
	if err != nil {
		return "", "", fmt.Errorf("encode quiz data: %w: %v", ErrSerialization, err)
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return "", "", fmt.Errorf("encode user answers: %w: %v", ErrSerialization, err)
	}
	return string(quizJSON), string(answersJSON), nil
}

// DecodeQuizData parses a stored quiz_data blob back into the question set.
func DecodeQuizData(raw string) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("decode quiz data: %w: %v", ErrSerialization, err)
	}
	return questions, nil
}

// DecodeUserAnswers parses a stored user_answers blob back into the
// question-index to answer mapping.
func DecodeUserAnswers(raw string) (map[int]string, error) {
	var answers map[int]string
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("decode user answers: %w: %v", ErrSerialization, err)
	}
	return answers, nil
}

// decodeHistoryRow fills in the structured fields from the raw blobs.
func decodeHistoryRow(entry *models.QuizHistory) error {
	questions, err := DecodeQuizData(entry.RawQuizData)
	if err != nil {
		return err
	}
	answers, err := DecodeUserAnswers(entry.RawUserAnswers)
	if err != nil {
		return err
	}
	entry.QuizData = questions
	entry.UserAnswers = answers
	return nil
}
