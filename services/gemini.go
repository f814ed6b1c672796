// Package services holds clients for external collaborators. The quiz
// generator is deliberately opaque to the rest of the app: content plus
// quantity/difficulty/type in, a validated question set out, an error the
// caller must surface otherwise.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/models"
)

// ErrQuizGeneration wraps every failure mode of the generator: transport,
// API errors, and malformed or incomplete model output. Callers report it to
// the user and must not persist anything.
var ErrQuizGeneration = errors.New("quiz generation failed")

// QuizGenerator produces a question set from note content.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, content string, quantity int, difficulty, quizType string) (*models.QuizPayload, error)
}

const defaultModel = "gemini-2.5-flash"

// GeminiClient calls the Google Generative Language REST API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewGeminiClient(log *logger.Logger) (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log.With("component", "services.gemini"),
	}, nil
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GeminiClient) GenerateQuiz(ctx context.Context, noteContent string, quantity int, difficulty, quizType string) (*models.QuizPayload, error) {
	prompt := buildQuizPrompt(noteContent, quantity, difficulty, quizType)

	body, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrQuizGeneration, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrQuizGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuizGeneration, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrQuizGeneration, err)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrQuizGeneration, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, fmt.Errorf("%w: api error: %s", ErrQuizGeneration, msg)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrQuizGeneration)
	}

	text := stripMarkdownFences(parsed.Candidates[0].Content.Parts[0].Text)

	var payload models.QuizPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed quiz JSON: %v", ErrQuizGeneration, err)
	}
	if err := validatePayload(&payload, quizType); err != nil {
		return nil, err
	}
	if len(payload.Questions) != quantity {
		c.log.Warn("generator returned unexpected question count",
			"want", quantity, "got", len(payload.Questions))
	}

	return &payload, nil
}

func buildQuizPrompt(noteContent string, quantity int, difficulty, quizType string) string {
	typeText := "true/false"
	typeRequirements := "- Each question should be a true/false statement"
	structure := `"correctAnswer": "true" or "false"`
	if quizType == models.QuizTypeMultipleChoice {
		typeText = "multiple choice"
		typeRequirements = "- Each question should have 4 options (A, B, C, D)\n- Only one option should be correct"
		structure = `"options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": "A"`
	}

	return fmt.Sprintf(`Generate a quiz based on the following content. Create exactly %d %s questions with %s difficulty level.

Content:
%s

Requirements:
- Generate exactly %d questions
- Difficulty: %s
- Type: %s
%s

Return the response in valid JSON format with the following structure:
{
  "questions": [
    {
      "question": "Question text here",
      %s
    }
  ]
}

Important: Return ONLY the JSON object, no additional text or formatting.`,
		quantity, typeText, difficulty, noteContent,
		quantity, difficulty, typeText, typeRequirements, structure)
}

// stripMarkdownFences removes the ```json fences models wrap their output in
// despite instructions not to.
func stripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.ReplaceAll(text, "```json\n", "")
		text = strings.ReplaceAll(text, "```json", "")
		text = strings.ReplaceAll(text, "```\n", "")
		text = strings.ReplaceAll(text, "```", "")
	}
	return strings.TrimSpace(text)
}

func validatePayload(payload *models.QuizPayload, quizType string) error {
	if len(payload.Questions) == 0 {
		return fmt.Errorf("%w: no questions in response", ErrQuizGeneration)
	}
	for i, q := range payload.Questions {
		if q.Question == "" || q.CorrectAnswer == "" {
			return fmt.Errorf("%w: question %d incomplete", ErrQuizGeneration, i)
		}
		if quizType == models.QuizTypeMultipleChoice && len(q.Options) != 4 {
			return fmt.Errorf("%w: question %d has %d options, want 4", ErrQuizGeneration, i, len(q.Options))
		}
	}
	return nil
}
