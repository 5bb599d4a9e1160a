package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/course"
	"github.com/zuritech/elimu/core/quiz"
	"github.com/zuritech/elimu/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	title, description, level string,
	createdAt ...time.Time,
) course.Course {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Title:       title,
		Description: description,
		Level:       level,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateVideo(
	t *testing.T,
	repo course.Repository,
	courseID, title, videoURL string,
	position int,
) course.Video {
	t.Helper()

	now := time.Now().UTC()
	vid, err := repo.CreateVideo(context.Background(), course.Video{
		CourseID:  courseID,
		Title:     title,
		VideoURL:  videoURL,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateVideo() failed: %v", err)
	}
	return vid
}

func CreateQuiz(
	t *testing.T,
	repo quiz.Repository,
	topic, courseID, createdBy string,
	questions []quiz.Question,
) quiz.Quiz {
	t.Helper()

	qz, err := repo.CreateQuiz(context.Background(), quiz.Quiz{
		CourseID:  courseID,
		Topic:     topic,
		Questions: questions,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}
	return qz
}

// SampleQuestions returns a small fixed question set for quiz tests.
func SampleQuestions() []quiz.Question {
	return []quiz.Question{
		{
			Question: "What is 2 + 2?",
			Options:  map[string]string{"A": "3", "B": "4", "C": "5", "D": "22"},
			Answer:   "B",
		},
		{
			Question: "What is the chemical symbol for water?",
			Options:  map[string]string{"A": "H2O", "B": "CO2", "C": "NaCl", "D": "O2"},
			Answer:   "A",
		},
	}
}

// TextGeneratorStub is a canned core.TextGenerator for tests.
type TextGeneratorStub struct {
	Response string
	Err      error

	// LastPrompt and LastOpts record the most recent call.
	LastPrompt string
	LastOpts   core.GenerateOptions
}

var _ core.TextGenerator = (*TextGeneratorStub)(nil)

func (g *TextGeneratorStub) GenerateText(_ context.Context, prompt string, opts core.GenerateOptions) (string, error) {
	g.LastPrompt = prompt
	g.LastOpts = opts
	if g.Err != nil {
		return "", g.Err
	}
	return g.Response, nil
}
