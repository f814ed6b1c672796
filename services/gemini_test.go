package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &GeminiClient{
		apiKey:     "test-key",
		model:      "test-model",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
		log:        logger.NewNop(),
	}
}

func modelResponseBody(text string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	return body
}

func TestGenerateQuizParsesFencedOutput(t *testing.T) {
	quizJSON := `{"questions":[
		{"question":"What is 2+2?","options":["3","4","5","6"],"correctAnswer":"B"},
		{"question":"Capital of France?","options":["Paris","Rome","Bonn","Oslo"],"correctAnswer":"A"}
	]}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.Path, "test-model")

		var req generateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Contains(t, req.Contents[0].Parts[0].Text, "exactly 2 multiple choice questions")

		w.Write(modelResponseBody("```json\n" + quizJSON + "\n```"))
	})

	payload, err := client.GenerateQuiz(context.Background(), "some note content", 2,
		models.DifficultyMedium, models.QuizTypeMultipleChoice)
	require.NoError(t, err)
	require.Len(t, payload.Questions, 2)
	require.Equal(t, "B", payload.Questions[0].CorrectAnswer)
	require.Len(t, payload.Questions[0].Options, 4)
}

func TestGenerateQuizMalformedOutput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(modelResponseBody("Sure! Here is your quiz: ..."))
	})

	_, err := client.GenerateQuiz(context.Background(), "content", 2,
		models.DifficultyEasy, models.QuizTypeTrueFalse)
	require.ErrorIs(t, err, ErrQuizGeneration)
}

func TestGenerateQuizAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	})

	_, err := client.GenerateQuiz(context.Background(), "content", 2,
		models.DifficultyEasy, models.QuizTypeTrueFalse)
	require.ErrorIs(t, err, ErrQuizGeneration)
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateQuizRejectsBadOptionCount(t *testing.T) {
	quizJSON := `{"questions":[{"question":"Q?","options":["A","B"],"correctAnswer":"A"}]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(modelResponseBody(quizJSON))
	})

	_, err := client.GenerateQuiz(context.Background(), "content", 1,
		models.DifficultyEasy, models.QuizTypeMultipleChoice)
	require.ErrorIs(t, err, ErrQuizGeneration)
}

func TestStripMarkdownFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, stripMarkdownFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripMarkdownFences("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripMarkdownFences(`{"a":1}`))
}
