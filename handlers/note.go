package handlers

import (
	"encoding/json"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/andrewpaige1/autoquiz-api/middleware"
	"github.com/andrewpaige1/autoquiz-api/utils"
)

func (a *API) GetNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notes, err := a.Store.GetNotesByUserID(r.Context(), user.ID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, notes)
}

func (a *API) CreateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil {
		// Body is optional; an empty or absent title falls back to the
		// "Untitled N" convention.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	title := req.Title
	if title == "" {
		notes, err := a.Store.GetNotesByUserID(r.Context(), user.ID)
		if err != nil {
			storageError(w, err)
			return
		}
		title = utils.NextUntitledTitle(notes)
	}

	publicID, err := gonanoid.New()
	if err != nil {
		http.Error(w, "Failed to generate note ID", http.StatusInternalServerError)
		return
	}

	noteID, err := a.Store.CreateNote(r.Context(), user.ID, publicID, title)
	if err != nil {
		storageError(w, err)
		return
	}

	note, err := a.Store.GetNoteByID(r.Context(), noteID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, note)
}

func (a *API) GetNote(w http.ResponseWriter, r *http.Request) {
	note, _, ok := a.ownedNote(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, note)
}

func (a *API) UpdateNoteTitle(w http.ResponseWriter, r *http.Request) {
	note, _, ok := a.ownedNote(w, r)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	if err := a.Store.UpdateNoteTitle(r.Context(), note.ID, req.Title); err != nil {
		storageError(w, err)
		return
	}

	updated, err := a.Store.GetNoteByID(r.Context(), note.ID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (a *API) UpdateNoteContent(w http.ResponseWriter, r *http.Request) {
	note, _, ok := a.ownedNote(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := a.Store.UpdateNoteContent(r.Context(), note.ID, req.Content); err != nil {
		storageError(w, err)
		return
	}

	updated, err := a.Store.GetNoteByID(r.Context(), note.ID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (a *API) DeleteNote(w http.ResponseWriter, r *http.Request) {
	note, _, ok := a.ownedNote(w, r)
	if !ok {
		return
	}

	// Quiz history rows go with the note; the store guarantees the cascade.
	if err := a.Store.DeleteNote(r.Context(), note.ID); err != nil {
		storageError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Note deleted")
}
