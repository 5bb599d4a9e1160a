package quiz

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zuritech/elimu/core"
)

// OptionKeys are the only accepted multiple-choice option keys, in order.
var OptionKeys = []string{"A", "B", "C", "D"}

// Question is a single validated multiple-choice question.
type Question struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"` // keys A-D
	Answer   string            `json:"answer"`  // one of A-D
}

// Quiz is a generated, persisted quiz.
type Quiz struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"course_id,omitempty"`
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"` // UTC
}

// AnswerDetail is the per-question outcome of a submission.
type AnswerDetail struct {
	Question  string `json:"question"`
	Chosen    string `json:"chosen"`
	Correct   string `json:"correct"`
	IsCorrect bool   `json:"is_correct"`
}

// History is one graded quiz attempt.
type History struct {
	ID             string         `json:"id"`
	UserID         string         `json:"-"`
	QuizID         string         `json:"quiz_id"`
	Topic          string         `json:"topic"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	Percentage     float64        `json:"percentage"`
	TakenAt        time.Time      `json:"taken_at"` // UTC
	Detail         []AnswerDetail `json:"detail,omitempty"`
}

// GenerateRequest asks for a fresh AI-generated quiz.
type GenerateRequest struct {
	Topic        string `json:"topic" validate:"required"`
	CourseID     string `json:"course_id" validate:"omitempty,uuid4"`
	NumQuestions int    `json:"num_questions" validate:"omitempty,min=1,max=20"`
}

func (gr *GenerateRequest) Validate(validate *validator.Validate) error {
	gr.Topic = core.CleanString(gr.Topic)
	return validate.Struct(gr)
}

// Submission carries a user's answers keyed by question index.
type Submission struct {
	Answers map[int]string `json:"answers" validate:"required"`
}

func (s Submission) Validate(validate *validator.Validate) error {
	return validate.Struct(s)
}
