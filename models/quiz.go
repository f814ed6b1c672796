package models

// QuizQuestion is a single generated question. Options is present only for
// multiple-choice questions and then holds exactly four entries; for
// true/false questions CorrectAnswer is "true" or "false".
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// QuizPayload is the structured question set returned by the generator.
type QuizPayload struct {
	Questions []QuizQuestion `json:"questions"`
}
