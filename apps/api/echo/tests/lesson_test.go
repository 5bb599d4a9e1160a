package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core/lesson"
	"github.com/zuritech/elimu/core/user"
	testutil "github.com/zuritech/elimu/tests"
)

func resetLessonStubs() {
	web.results, web.err = nil, nil
	images.urls, images.err = nil, nil
	videos.results, videos.err = nil, nil
	speech.url, speech.err = "", nil
}

func Test_lessonApi_build(t *testing.T) {
	resetDB(t)
	defer resetLessonStubs()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	body := marchallObj(t, lesson.Request{Query: "photosynthesis"})

	searchResults := []lesson.SearchResult{
		{Title: "Photosynthesis", Snippet: "How plants make food.", Link: "https://example.org/photo"},
		{Title: "Chlorophyll", Snippet: "The green pigment.", Link: "https://example.org/chloro"},
	}
	videoResults := []lesson.VideoResult{
		{Title: "Photosynthesis in 5 minutes", WatchURL: "https://www.youtube.com/watch?v=abc"},
	}
	imageURLs := []string{
		"https://images.test/1.jpg",
		"https://images.test/2.jpg",
		"https://images.test/3.jpg",
		"https://images.test/4.jpg",
	}

	t.Run("Auth required", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodPost, "/v1/lessons", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("required fields", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"query": "this field is required"})}
		req, rec := newAuthRequest(http.MethodPost, "/v1/lessons", studentToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("all providers available", func(t *testing.T) {
		resetLessonStubs()
		web.results = searchResults
		videos.results = videoResults
		images.urls = imageURLs
		speech.url = "/media/audio/lesson.mp3"

		req, rec := newAuthRequest(http.MethodPost, "/v1/lessons", studentToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var lsn lesson.Lesson
		if err := json.Unmarshal(rec.Body.Bytes(), &lsn); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if lsn.Query != "photosynthesis" {
			t.Errorf("failed! query = %q", lsn.Query)
		}
		if !strings.Contains(lsn.TextAnswer, "**Top Search Results:**") {
			t.Errorf("failed! text answer missing header: %q", lsn.TextAnswer)
		}
		for _, res := range searchResults {
			if !strings.Contains(lsn.TextAnswer, res.Title) || !strings.Contains(lsn.TextAnswer, res.Link) {
				t.Errorf("failed! text answer missing %q", res.Title)
			}
		}
		if lsn.AudioURL != "/media/audio/lesson.mp3" {
			t.Errorf("failed! audio URL = %q", lsn.AudioURL)
		}
		if len(lsn.Videos) != 1 || lsn.Videos[0] != videoResults[0] {
			t.Errorf("failed! videos = %+v", lsn.Videos)
		}
		// results are capped at 3
		if len(lsn.Images) != 3 {
			t.Errorf("failed! len(images) = %d; want 3", len(lsn.Images))
		}
		if lsn.GeneratedAt.IsZero() {
			t.Error("failed! zero GeneratedAt")
		}
	})

	t.Run("a failing provider only empties its own section", func(t *testing.T) {
		resetLessonStubs()
		web.results = searchResults
		videos.err = errors.New("quota exceeded")
		images.err = errors.New("boom")
		speech.err = errors.New("no voice")

		req, rec := newAuthRequest(http.MethodPost, "/v1/lessons", studentToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var lsn lesson.Lesson
		if err := json.Unmarshal(rec.Body.Bytes(), &lsn); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if !strings.Contains(lsn.TextAnswer, searchResults[0].Title) {
			t.Errorf("failed! text answer = %q", lsn.TextAnswer)
		}
		if lsn.AudioURL != "" {
			t.Errorf("failed! audio URL = %q; want empty", lsn.AudioURL)
		}
		if len(lsn.Videos) != 0 || len(lsn.Images) != 0 {
			t.Errorf("failed! videos = %+v, images = %+v; want empty", lsn.Videos, lsn.Images)
		}
	})

	t.Run("no search results", func(t *testing.T) {
		resetLessonStubs()
		web.err = errors.New("search down")

		req, rec := newAuthRequest(http.MethodPost, "/v1/lessons", studentToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var lsn lesson.Lesson
		if err := json.Unmarshal(rec.Body.Bytes(), &lsn); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if lsn.TextAnswer != "No results found." {
			t.Errorf("failed! text answer = %q", lsn.TextAnswer)
		}
	})
}
