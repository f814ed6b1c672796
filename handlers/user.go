package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrewpaige1/autoquiz-api/auth"
	"github.com/andrewpaige1/autoquiz-api/config"
	"github.com/andrewpaige1/autoquiz-api/middleware"
	"github.com/andrewpaige1/autoquiz-api/storage"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	userID, err := a.Store.CreateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			http.Error(w, "Username already taken", http.StatusConflict)
			return
		}
		a.Log.Error("signup failed", "error", err)
		storageError(w, err)
		return
	}

	tokenString, err := auth.CreateToken(userID, req.Username)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		a.Log.Error("token generation failed", "error", err)
		return
	}
	auth.SetSessionCookie(w, tokenString, config.Env.Domain, config.Env.CookieSecure)

	user, err := a.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := a.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		storageError(w, err)
		return
	}
	// Passwords are stored and compared verbatim. Known limitation.
	if user == nil || user.Password != req.Password {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	tokenString, err := auth.CreateToken(user.ID, user.Username)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		a.Log.Error("token generation failed", "error", err)
		return
	}
	auth.SetSessionCookie(w, tokenString, config.Env.Domain, config.Env.CookieSecure)

	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, config.Env.Domain, config.Env.CookieSecure)
	respondMessage(w, http.StatusOK, "Logged out")
}

func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (a *API) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		PhotoURI string `json:"photo_uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := a.Store.UpdateUserPhoto(r.Context(), user.ID, req.PhotoURI); err != nil {
		storageError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Photo updated")
}

func (a *API) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		http.Error(w, "Username is required", http.StatusBadRequest)
		return
	}

	if err := a.Store.UpdateUsername(r.Context(), user.ID, req.Username); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			http.Error(w, "Username already taken", http.StatusConflict)
			return
		}
		storageError(w, err)
		return
	}

	// The session token carries the username, so it has to be reissued.
	tokenString, err := auth.CreateToken(user.ID, req.Username)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		a.Log.Error("token generation failed", "error", err)
		return
	}
	auth.SetSessionCookie(w, tokenString, config.Env.Domain, config.Env.CookieSecure)

	updated, err := a.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": updated})
}

func (a *API) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "Password is required", http.StatusBadRequest)
		return
	}

	if err := a.Store.UpdatePassword(r.Context(), user.ID, req.Password); err != nil {
		storageError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Password updated")
}
