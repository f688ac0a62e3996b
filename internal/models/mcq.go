package models

// Difficulty of a generated question set.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Language of the generation prompt and the produced questions.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageBengali Language = "bengali"
)

// OptionLabels are the only labels an MCQ option may carry.
var OptionLabels = []string{"A", "B", "C", "D"}

// Option is one labeled answer choice.
type Option struct {
	Label string `json:"label" validate:"required,oneof=A B C D"`
	Text  string `json:"text" validate:"required"`
}

// MCQ is a generated multiple choice question. It is never persisted.
type MCQ struct {
	ID            int        `json:"id" validate:"gte=1"`
	Subject       string     `json:"subject"`
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Question      string     `json:"question" validate:"required"`
	Options       []Option   `json:"options" validate:"len=4,dive"`
	CorrectAnswer string     `json:"correctAnswer" validate:"required,oneof=A B C D"`
	Explanation   string     `json:"explanation" validate:"required"`
	TimeToSolve   *int       `json:"timeToSolve,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
}
