// Package inmemdb provides map-backed repositories for tests.
package inmemdb

import (
	"sync"

	"github.com/zuritech/elimu/core/course"
	"github.com/zuritech/elimu/core/quiz"
	"github.com/zuritech/elimu/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users       map[string]*user.User
	courses     map[string]*course.Course
	videos      map[string]*course.Video
	completions map[string]map[string]bool // userID -> videoID set
	quizzes     map[string]*quiz.Quiz
	history     map[string]*quiz.History
}

func NewDB() *DB {
	db := new(DB)
	db.Reset()
	return db
}

// Reset drops all stored data.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.users = make(map[string]*user.User)
	db.courses = make(map[string]*course.Course)
	db.videos = make(map[string]*course.Video)
	db.completions = make(map[string]map[string]bool)
	db.quizzes = make(map[string]*quiz.Quiz)
	db.history = make(map[string]*quiz.History)
}
