package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/middleware"
	"github.com/andrewpaige1/autoquiz-api/models"
	"github.com/andrewpaige1/autoquiz-api/services"
	"github.com/andrewpaige1/autoquiz-api/storage"
)

// API bundles the dependencies every handler needs. Store is the single
// persistence surface; Quiz is the external generator.
type API struct {
	Store storage.Engine
	Quiz  services.QuizGenerator
	Log   *logger.Logger
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

// storageError maps storage failures to HTTP responses.
func storageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrDuplicateKey):
		http.Error(w, "Already exists", http.StatusConflict)
	case errors.Is(err, storage.ErrConstraint):
		http.Error(w, "Referenced row does not exist", http.StatusConflict)
	case errors.Is(err, storage.ErrNotInitialized):
		http.Error(w, "Storage not initialized", http.StatusInternalServerError)
	default:
		http.Error(w, "Storage error", http.StatusInternalServerError)
	}
}

// ownedNote resolves {noteID} from the path and checks the note belongs to
// the authenticated user. Someone else's note is reported as not found.
func (a *API) ownedNote(w http.ResponseWriter, r *http.Request) (*models.Note, *models.User, bool) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, nil, false
	}

	noteID, err := strconv.ParseInt(r.PathValue("noteID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return nil, nil, false
	}

	note, err := a.Store.GetNoteByID(r.Context(), noteID)
	if err != nil {
		storageError(w, err)
		return nil, nil, false
	}
	if note == nil || note.UserID != user.ID {
		http.Error(w, "Note not found", http.StatusNotFound)
		return nil, nil, false
	}
	return note, user, true
}
