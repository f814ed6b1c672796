package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/andrewpaige1/autoquiz-api/config"
	"github.com/andrewpaige1/autoquiz-api/handlers"
	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/middleware"
	"github.com/andrewpaige1/autoquiz-api/services"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	logMode := "dev"
	if !config.Env.IsDevelopment {
		logMode = "prod"
	}
	appLog, err := logger.New(logMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	// Fail at startup rather than on the first signup.
	if !config.JWTConfigured() {
		appLog.Fatal("JWT_SECRET_KEY is not set")
	}

	// The backend is chosen once here and never switched.
	store := config.NewEngine(appLog)
	if err := store.Init(context.Background()); err != nil {
		appLog.Fatal("failed to initialize storage", "error", err)
	}
	defer store.Close()

	quiz, err := services.NewGeminiClient(appLog)
	if err != nil {
		appLog.Fatal("failed to build quiz generator", "error", err)
	}

	api := &handlers.API{Store: store, Quiz: quiz, Log: appLog}
	withUser := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireUser(store, h)
	}

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/signup", api.Signup)
	mux.HandleFunc("POST /api/auth/login", api.Login)
	mux.HandleFunc("POST /api/auth/logout", api.Logout)
	mux.HandleFunc("GET /api/auth/me", withUser(api.Me))

	// Account
	mux.HandleFunc("PUT /api/account/photo", withUser(api.UpdatePhoto))
	mux.HandleFunc("PUT /api/account/username", withUser(api.UpdateUsername))
	mux.HandleFunc("PUT /api/account/password", withUser(api.UpdatePassword))

	// Notes
	mux.HandleFunc("GET /api/notes", withUser(api.GetNotes))
	mux.HandleFunc("POST /api/notes", withUser(api.CreateNote))
	mux.HandleFunc("GET /api/notes/{noteID}", withUser(api.GetNote))
	mux.HandleFunc("PUT /api/notes/{noteID}/title", withUser(api.UpdateNoteTitle))
	mux.HandleFunc("PUT /api/notes/{noteID}/content", withUser(api.UpdateNoteContent))
	mux.HandleFunc("DELETE /api/notes/{noteID}", withUser(api.DeleteNote))

	// Quiz
	mux.HandleFunc("POST /api/notes/{noteID}/quiz", withUser(api.GenerateQuiz))
	mux.HandleFunc("POST /api/notes/{noteID}/history", withUser(api.SubmitQuiz))
	mux.HandleFunc("GET /api/notes/{noteID}/history", withUser(api.GetQuizHistory))
	mux.HandleFunc("DELETE /api/notes/{noteID}/history", withUser(api.ClearQuizHistory))

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}
	serverAddr := "0.0.0.0:" + port

	appLog.Info("starting server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		appLog.Fatal("server failed", "error", err)
	}
}
