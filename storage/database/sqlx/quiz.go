package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core/quiz"
)

type quizRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *sqlx.DB) *quizRepository {
	return &quizRepository{db: db}
}

type (
	// dbQuiz maps a quiz row. Questions are stored as JSONB.
	dbQuiz struct {
		ID        string          `db:"id"`
		CourseID  sql.NullString  `db:"course_id"`
		Topic     string          `db:"topic"`
		Questions json.RawMessage `db:"questions"`
		CreatedBy sql.NullString  `db:"created_by"`
		CreatedAt time.Time       `db:"created_at"`
	}

	// dbHistory maps a quiz_history row. Detail is stored as JSONB.
	dbHistory struct {
		ID             string          `db:"id"`
		UserID         string          `db:"user_id"`
		QuizID         string          `db:"quiz_id"`
		Topic          string          `db:"topic"`
		Score          int             `db:"score"`
		TotalQuestions int             `db:"total_questions"`
		Percentage     float64         `db:"percentage"`
		TakenAt        time.Time       `db:"taken_at"`
		Detail         json.RawMessage `db:"detail"`
	}
)

func (repo quizRepository) unmarshalQuiz(q dbQuiz) (quiz.Quiz, error) {
	qz := quiz.Quiz{
		ID:        q.ID,
		CourseID:  q.CourseID.String,
		Topic:     q.Topic,
		CreatedBy: q.CreatedBy.String,
		CreatedAt: q.CreatedAt,
	}
	if err := json.Unmarshal(q.Questions, &qz.Questions); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "unmarshalling quiz questions")
	}
	return qz, nil
}

func (repo quizRepository) unmarshalHistory(h dbHistory) (quiz.History, error) {
	hist := quiz.History{
		ID:             h.ID,
		UserID:         h.UserID,
		QuizID:         h.QuizID,
		Topic:          h.Topic,
		Score:          h.Score,
		TotalQuestions: h.TotalQuestions,
		Percentage:     h.Percentage,
		TakenAt:        h.TakenAt,
	}
	if len(h.Detail) > 0 {
		if err := json.Unmarshal(h.Detail, &hist.Detail); err != nil {
			return quiz.History{}, errors.Wrap(err, "unmarshalling attempt detail")
		}
	}
	return hist, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (repo quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	qz.ID = uuid.New().String()

	questions, err := json.Marshal(qz.Questions)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "marshalling quiz questions")
	}

	const query = `
INSERT INTO quiz (id, course_id, topic, questions, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = repo.db.ExecContext(ctx, query, qz.ID, nullString(qz.CourseID), qz.Topic, questions, nullString(qz.CreatedBy), qz.CreatedAt.UTC()); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return qz, nil
}

func (repo quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	if _, err := uuid.Parse(id); err != nil {
		return quiz.Quiz{}, quiz.ErrNotFound
	}

	var q dbQuiz
	if err := repo.db.GetContext(ctx, &q, `SELECT * FROM quiz WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return quiz.Quiz{}, quiz.ErrNotFound
		}
		return quiz.Quiz{}, errors.Wrap(err, "finding quiz by ID")
	}
	return repo.unmarshalQuiz(q)
}

func (repo quizRepository) QueryQuizzesByCourseID(ctx context.Context, courseID string) ([]quiz.Quiz, error) {
	var rows []dbQuiz
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM quiz WHERE course_id = $1 ORDER BY created_at DESC`, courseID); err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}

	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, q := range rows {
		qz, err := repo.unmarshalQuiz(q)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, qz)
	}
	return quizzes, nil
}

func (repo quizRepository) CreateHistory(ctx context.Context, hist quiz.History) (quiz.History, error) {
	hist.ID = uuid.New().String()

	detail, err := json.Marshal(hist.Detail)
	if err != nil {
		return quiz.History{}, errors.Wrap(err, "marshalling attempt detail")
	}

	const query = `
INSERT INTO quiz_history (id, user_id, quiz_id, topic, score, total_questions, percentage, taken_at, detail)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err = repo.db.ExecContext(ctx, query,
		hist.ID, hist.UserID, hist.QuizID, hist.Topic, hist.Score, hist.TotalQuestions, hist.Percentage, hist.TakenAt.UTC(), detail); err != nil {
		return quiz.History{}, errors.Wrap(err, "inserting quiz attempt")
	}
	return hist, nil
}

func (repo quizRepository) GetHistoryByID(ctx context.Context, id string) (quiz.History, error) {
	if _, err := uuid.Parse(id); err != nil {
		return quiz.History{}, quiz.ErrHistoryNotFound
	}

	var h dbHistory
	if err := repo.db.GetContext(ctx, &h, `SELECT * FROM quiz_history WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return quiz.History{}, quiz.ErrHistoryNotFound
		}
		return quiz.History{}, errors.Wrap(err, "finding quiz attempt by ID")
	}
	return repo.unmarshalHistory(h)
}

func (repo quizRepository) QueryHistoryByUserID(ctx context.Context, userID string) ([]quiz.History, error) {
	var rows []dbHistory
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM quiz_history WHERE user_id = $1 ORDER BY taken_at DESC`, userID); err != nil {
		return nil, errors.Wrap(err, "querying quiz attempts")
	}

	attempts := make([]quiz.History, 0, len(rows))
	for _, h := range rows {
		hist, err := repo.unmarshalHistory(h)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, hist)
	}
	return attempts, nil
}
