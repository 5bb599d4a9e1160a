package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
)

var (
	// errors
	ErrNotFound        = errors.New("quiz not found")
	ErrHistoryNotFound = errors.New("quiz attempt not found")
	// ErrMalformedQuiz is returned when the model output survives cleanup but
	// still cannot be validated into a usable quiz.
	ErrMalformedQuiz = errors.New("generated quiz is malformed")
)

const defaultNumQuestions = 5

type (
	Repository interface {
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		GetQuizByID(ctx context.Context, id string) (Quiz, error)
		QueryQuizzesByCourseID(ctx context.Context, courseID string) ([]Quiz, error)

		CreateHistory(ctx context.Context, hist History) (History, error)
		GetHistoryByID(ctx context.Context, id string) (History, error)
		// QueryHistoryByUserID returns a user's attempts, most recent first.
		QueryHistoryByUserID(ctx context.Context, userID string) ([]History, error)
	}

	ServiceInterface interface {
		Generate(ctx context.Context, userID string, req GenerateRequest) (Quiz, error)
		GetByID(id string) (Quiz, error)
		QueryByCourse(courseID string) ([]Quiz, error)
		Submit(userID, quizID string, sub Submission) (History, error)
		QueryHistory(userID string) ([]History, error)
		GetHistory(userID, id string) (History, error)
	}

	service struct {
		repo Repository
		gen  core.TextGenerator
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, gen core.TextGenerator) *service {
	return &service{repo: repo, gen: gen}
}

func (svc *service) Generate(ctx context.Context, userID string, req GenerateRequest) (Quiz, error) {
	n := req.NumQuestions
	if n == 0 {
		n = defaultNumQuestions
	}

	raw, err := svc.gen.GenerateText(ctx, quizPrompt(req.Topic, n), core.GenerateOptions{
		Temperature: 0.7,
		JSONOutput:  true,
	})
	if err != nil {
		return Quiz{}, errors.Wrap(err, "generating quiz")
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		return Quiz{}, err
	}

	qz := Quiz{
		CourseID:  req.CourseID,
		Topic:     req.Topic,
		Questions: questions,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateQuiz(ctx, qz)
}

func (svc *service) GetByID(id string) (Quiz, error) {
	return svc.repo.GetQuizByID(context.Background(), id)
}

func (svc *service) QueryByCourse(courseID string) ([]Quiz, error) {
	return svc.repo.QueryQuizzesByCourseID(context.Background(), courseID)
}

func (svc *service) Submit(userID, quizID string, sub Submission) (History, error) {
	ctx := context.Background()
	qz, err := svc.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return History{}, err
	}

	var score int
	detail := make([]AnswerDetail, 0, len(qz.Questions))
	for i, q := range qz.Questions {
		chosen := strings.ToUpper(core.CleanString(sub.Answers[i]))
		d := AnswerDetail{
			Question:  q.Question,
			Chosen:    chosen,
			Correct:   q.Answer,
			IsCorrect: chosen == q.Answer,
		}
		if d.IsCorrect {
			score++
		}
		detail = append(detail, d)
	}

	hist := History{
		UserID:         userID,
		QuizID:         qz.ID,
		Topic:          qz.Topic,
		Score:          score,
		TotalQuestions: len(qz.Questions),
		TakenAt:        time.Now().UTC(),
		Detail:         detail,
	}
	if hist.TotalQuestions > 0 {
		hist.Percentage = float64(score) / float64(hist.TotalQuestions) * 100
	}
	return svc.repo.CreateHistory(ctx, hist)
}

func (svc *service) QueryHistory(userID string) ([]History, error) {
	return svc.repo.QueryHistoryByUserID(context.Background(), userID)
}

func (svc *service) GetHistory(userID, id string) (History, error) {
	hist, err := svc.repo.GetHistoryByID(context.Background(), id)
	if err != nil {
		return History{}, err
	}
	if hist.UserID != userID {
		return History{}, ErrHistoryNotFound
	}
	return hist, nil
}

// Generation pipeline

func quizPrompt(topic string, n int) string {
	return fmt.Sprintf(`Generate a multiple-choice quiz with exactly %d questions about the topic: %q.
For each question, provide:
1. The question text ('question').
2. Four options ('options') as a JSON object with keys "A", "B", "C", "D".
3. The correct answer letter ('answer') which must be one of "A", "B", "C" or "D".

Return the output ONLY as a single, valid JSON object string. Do not include any introductory text,
concluding text, explanations, markdown formatting (like a json code fence), or anything else outside
the JSON structure. The JSON structure must be:
{"questions": [{"question": "...", "options": {"A": "...", "B": "...", "C": "...", "D": "..."}, "answer": "..."}]}`, n, topic)
}

type (
	genPayload struct {
		Questions []genQuestion `json:"questions"`
	}

	// genQuestion tolerates non-string option values; they are coerced during validation.
	genQuestion struct {
		Question string                 `json:"question"`
		Options  map[string]interface{} `json:"options"`
		Answer   string                 `json:"answer"`
	}
)

// parseQuestions cleans the raw model output and validates it into questions.
func parseQuestions(raw string) ([]Question, error) {
	cleaned := stripCodeFences(raw)

	var payload genPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, errors.Wrapf(ErrMalformedQuiz, "parsing JSON: %v", err)
	}
	if len(payload.Questions) == 0 {
		return nil, errors.Wrap(ErrMalformedQuiz, "empty questions list")
	}

	questions := make([]Question, 0, len(payload.Questions))
	for i, gq := range payload.Questions {
		q, err := gq.validate()
		if err != nil {
			return nil, errors.Wrapf(err, "question %d", i+1)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (gq genQuestion) validate() (Question, error) {
	if core.CleanString(gq.Question) == "" {
		return Question{}, errors.Wrap(ErrMalformedQuiz, "missing question text")
	}
	if len(gq.Options) != len(OptionKeys) {
		return Question{}, errors.Wrap(ErrMalformedQuiz, "options must be exactly A, B, C, D")
	}

	opts := make(map[string]string, len(OptionKeys))
	for _, key := range OptionKeys {
		val, ok := gq.Options[key]
		if !ok {
			return Question{}, errors.Wrapf(ErrMalformedQuiz, "missing option %s", key)
		}
		if s, ok := val.(string); ok {
			opts[key] = s
		} else {
			opts[key] = fmt.Sprintf("%v", val) // repair: coerce to string
		}
	}

	answer := strings.ToUpper(core.CleanString(gq.Answer))
	if _, ok := opts[answer]; !ok {
		return Question{}, errors.Wrapf(ErrMalformedQuiz, "invalid answer key %q", gq.Answer)
	}

	return Question{Question: gq.Question, Options: opts, Answer: answer}, nil
}

// stripCodeFences removes markdown code fences and any noise around the outermost
// JSON object. Models regularly wrap JSON despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:] // drop ``` or ```json line
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	// keep only the outermost object
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
