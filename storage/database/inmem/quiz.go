package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/zuritech/elimu/core/quiz"
)

type quizRepository struct {
	db *DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) *quizRepository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	qz.ID = uuid.New().String()
	repo.db.quizzes[qz.ID] = &qz
	return qz, nil
}

func (repo *quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if qz, ok := repo.db.quizzes[id]; ok {
		return *qz, nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) QueryQuizzesByCourseID(ctx context.Context, courseID string) ([]quiz.Quiz, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	quizzes := make([]quiz.Quiz, 0)
	for _, qz := range repo.db.quizzes {
		if qz.CourseID == courseID {
			quizzes = append(quizzes, *qz)
		}
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt) })
	return quizzes, nil
}

func (repo *quizRepository) CreateHistory(ctx context.Context, hist quiz.History) (quiz.History, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	hist.ID = uuid.New().String()
	repo.db.history[hist.ID] = &hist
	return hist, nil
}

func (repo *quizRepository) GetHistoryByID(ctx context.Context, id string) (quiz.History, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if hist, ok := repo.db.history[id]; ok {
		return *hist, nil
	}
	return quiz.History{}, quiz.ErrHistoryNotFound
}

func (repo *quizRepository) QueryHistoryByUserID(ctx context.Context, userID string) ([]quiz.History, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	attempts := make([]quiz.History, 0)
	for _, hist := range repo.db.history {
		if hist.UserID == userID {
			attempts = append(attempts, *hist)
		}
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].TakenAt.After(attempts[j].TakenAt) })
	return attempts, nil
}
