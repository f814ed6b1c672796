package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/autoquiz-api/models"
)

func TestEncodeDecodeMultipleChoicePayload(t *testing.T) {
	questions := sampleQuestions(5)
	answers := map[int]string{0: "A", 1: "B", 4: "C"}

	quizJSON, answersJSON, err := EncodeQuizPayload(questions, answers)
	require.NoError(t, err)

	decodedQuestions, err := DecodeQuizData(quizJSON)
	require.NoError(t, err)
	require.Equal(t, questions, decodedQuestions)

	decodedAnswers, err := DecodeUserAnswers(answersJSON)
	require.NoError(t, err)
	require.Equal(t, answers, decodedAnswers)
}

func TestEncodeDecodeTrueFalsePayload(t *testing.T) {
	questions := []models.QuizQuestion{
		{Question: "The sky is green.", CorrectAnswer: "false"},
		{Question: "Water boils at 100C at sea level.", CorrectAnswer: "true"},
	}
	answers := map[int]string{0: "false", 1: "false"}

	quizJSON, answersJSON, err := EncodeQuizPayload(questions, answers)
	require.NoError(t, err)

	decodedQuestions, err := DecodeQuizData(quizJSON)
	require.NoError(t, err)
	require.Equal(t, questions, decodedQuestions)
	require.Nil(t, decodedQuestions[0].Options)

	decodedAnswers, err := DecodeUserAnswers(answersJSON)
	require.NoError(t, err)
	require.Equal(t, answers, decodedAnswers)
}

func TestEncodeEmptyAnswerMap(t *testing.T) {
	_, answersJSON, err := EncodeQuizPayload(sampleQuestions(1), map[int]string{})
	require.NoError(t, err)

	decoded, err := DecodeUserAnswers(answersJSON)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestDecodeMalformedBlobs(t *testing.T) {
	_, err := DecodeQuizData("{not json")
	require.ErrorIs(t, err, ErrSerialization)

	_, err = DecodeUserAnswers(`{"zero":"A"}`)
	require.ErrorIs(t, err, ErrSerialization)
}
