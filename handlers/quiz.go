package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/andrewpaige1/autoquiz-api/models"
	"github.com/andrewpaige1/autoquiz-api/storage"
)

const maxQuizQuestions = 20

// GenerateQuiz asks the external generator for a question set over the
// note's content. Nothing is persisted here; history is written only when
// the finished quiz is submitted.
func (a *API) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	note, _, ok := a.ownedNote(w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity   int    `json:"quantity"`
		Difficulty string `json:"difficulty"`
		QuizType   string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 || req.Quantity > maxQuizQuestions {
		http.Error(w, "Quantity must be between 1 and 20", http.StatusBadRequest)
		return
	}
	if !models.ValidDifficulty(req.Difficulty) {
		http.Error(w, "Invalid difficulty", http.StatusBadRequest)
		return
	}
	if !models.ValidQuizType(req.QuizType) {
		http.Error(w, "Invalid quiz type", http.StatusBadRequest)
		return
	}
	if note.Content == "" {
		http.Error(w, "Note has no content to quiz on", http.StatusBadRequest)
		return
	}

	payload, err := a.Quiz.GenerateQuiz(r.Context(), note.Content, req.Quantity, req.Difficulty, req.QuizType)
	if err != nil {
		a.Log.Error("quiz generation failed", "note_id", note.ID, "error", err)
		http.Error(w, "Failed to generate quiz. Please try again.", http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"questions":  payload.Questions,
		"difficulty": req.Difficulty,
		"quiz_type":  req.QuizType,
	})
}

// SubmitQuiz scores a completed quiz against the submitted question set and
// records a history entry. The score comes from the server-side comparison,
// never from the client.
func (a *API) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	note, _, ok := a.ownedNote(w, r)
	if !ok {
		return
	}

	var req struct {
		Questions     []models.QuizQuestion `json:"questions"`
		Answers       map[int]string        `json:"answers"`
		Difficulty    string                `json:"difficulty"`
		QuizType      string                `json:"quiz_type"`
		TimerDuration int                   `json:"timer_duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Questions) == 0 {
		http.Error(w, "Questions are required", http.StatusBadRequest)
		return
	}
	if !models.ValidDifficulty(req.Difficulty) {
		http.Error(w, "Invalid difficulty", http.StatusBadRequest)
		return
	}
	if !models.ValidQuizType(req.QuizType) {
		http.Error(w, "Invalid quiz type", http.StatusBadRequest)
		return
	}
	if req.TimerDuration < 0 {
		http.Error(w, "Timer duration must not be negative", http.StatusBadRequest)
		return
	}
	if req.Answers == nil {
		req.Answers = map[int]string{}
	}
	for idx := range req.Answers {
		if idx < 0 || idx >= len(req.Questions) {
			http.Error(w, "Answer index out of range", http.StatusBadRequest)
			return
		}
	}

	score := 0
	for i, q := range req.Questions {
		if answer, answered := req.Answers[i]; answered && answer == q.CorrectAnswer {
			score++
		}
	}

	entryID, err := a.Store.CreateQuizHistory(r.Context(), storage.QuizAttempt{
		NoteID:         note.ID,
		Score:          score,
		TotalQuestions: len(req.Questions),
		Difficulty:     req.Difficulty,
		QuizType:       req.QuizType,
		QuizData:       req.Questions,
		UserAnswers:    req.Answers,
		TimerDuration:  req.TimerDuration,
	})
	if err != nil {
		storageError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":              entryID,
		"score":           score,
		"total_questions": len(req.Questions),
	})
}

func (a *API) GetQuizHistory(w http.ResponseWriter, r *http.Request) {
	note, _, ok := a.ownedNote(w, r)
	if !ok {
		return
	}

	history, err := a.Store.GetQuizHistoryByNoteID(r.Context(), note.ID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (a *API) ClearQuizHistory(w http.ResponseWriter, r *http.Request) {
	note, _, ok := a.ownedNote(w, r)
	if !ok {
		return
	}

	if err := a.Store.DeleteQuizHistoryByNoteID(r.Context(), note.ID); err != nil {
		storageError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "History cleared")
}
