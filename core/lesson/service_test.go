package lesson

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

type (
	nopLogger struct{}

	stubWeb struct {
		results []SearchResult
		err     error
		lastN   int
	}
	stubImages struct {
		urls []string
		err  error
	}
	stubVideos struct {
		results []VideoResult
		err     error
	}
	stubSpeech struct {
		url      string
		err      error
		lastText string
	}
)

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func (s *stubWeb) Search(_ context.Context, _ string, n int) ([]SearchResult, error) {
	s.lastN = n
	return s.results, s.err
}

func (s *stubImages) SearchImages(_ context.Context, _ string, n int) ([]string, error) {
	return s.urls, s.err
}

func (s *stubVideos) SearchVideos(_ context.Context, _ string, n int) ([]VideoResult, error) {
	return s.results, s.err
}

func (s *stubSpeech) Synthesize(text string) (string, error) {
	s.lastText = text
	return s.url, s.err
}

func Test_renderTextAnswer(t *testing.T) {
	if got := renderTextAnswer(nil); got != "No results found." {
		t.Errorf("renderTextAnswer(nil) = %q", got)
	}

	results := []SearchResult{
		{Title: "Photosynthesis", Snippet: "How plants make food.", Link: "https://example.org/photo"},
		{Title: "Chlorophyll", Snippet: "The green pigment.", Link: "https://example.org/chloro"},
	}
	got := renderTextAnswer(results)
	if !strings.HasPrefix(got, "**Top Search Results:**") {
		t.Errorf("renderTextAnswer() = %q", got)
	}
	for _, res := range results {
		if !strings.Contains(got, "**"+res.Title+"**") || !strings.Contains(got, res.Snippet) || !strings.Contains(got, res.Link) {
			t.Errorf("renderTextAnswer() missing %q: %q", res.Title, got)
		}
	}
}

func Test_service_Build(t *testing.T) {
	results := []SearchResult{{Title: "Photosynthesis", Snippet: "How plants make food.", Link: "https://example.org/photo"}}
	vids := []VideoResult{{Title: "Photosynthesis in 5 minutes", WatchURL: "https://www.youtube.com/watch?v=abc"}}
	imgs := []string{"https://images.test/1.jpg", "https://images.test/2.jpg"}

	t.Run("all providers", func(t *testing.T) {
		web := &stubWeb{results: results}
		speech := &stubSpeech{url: "/media/audio/x.mp3"}
		svc := NewService(web, &stubImages{urls: imgs}, &stubVideos{results: vids}, speech, nopLogger{})

		lsn, err := svc.Build(context.Background(), Request{Query: "photosynthesis"})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if lsn.Query != "photosynthesis" {
			t.Errorf("query = %q", lsn.Query)
		}
		if web.lastN != maxResults {
			t.Errorf("web search n = %d, want %d", web.lastN, maxResults)
		}
		if !strings.Contains(lsn.TextAnswer, results[0].Title) {
			t.Errorf("text answer = %q", lsn.TextAnswer)
		}
		// the synthesized audio reads the text answer
		if speech.lastText != lsn.TextAnswer {
			t.Errorf("synthesized %q, want %q", speech.lastText, lsn.TextAnswer)
		}
		if lsn.AudioURL != "/media/audio/x.mp3" {
			t.Errorf("audio URL = %q", lsn.AudioURL)
		}
		if len(lsn.Videos) != 1 || len(lsn.Images) != 2 {
			t.Errorf("videos = %+v, images = %+v", lsn.Videos, lsn.Images)
		}
		if lsn.GeneratedAt.IsZero() {
			t.Error("zero GeneratedAt")
		}
	})

	t.Run("failing providers empty their own sections", func(t *testing.T) {
		boom := errors.New("boom")
		svc := NewService(
			&stubWeb{err: boom},
			&stubImages{err: boom},
			&stubVideos{err: boom},
			&stubSpeech{err: boom},
			nopLogger{},
		)

		lsn, err := svc.Build(context.Background(), Request{Query: "photosynthesis"})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if lsn.TextAnswer != "No results found." {
			t.Errorf("text answer = %q", lsn.TextAnswer)
		}
		if lsn.AudioURL != "" {
			t.Errorf("audio URL = %q, want empty", lsn.AudioURL)
		}
		if lsn.Videos == nil || len(lsn.Videos) != 0 {
			t.Errorf("videos = %#v, want empty non-nil", lsn.Videos)
		}
		if lsn.Images == nil || len(lsn.Images) != 0 {
			t.Errorf("images = %#v, want empty non-nil", lsn.Images)
		}
	})

	t.Run("nil providers are skipped", func(t *testing.T) {
		svc := NewService(nil, nil, nil, nil, nopLogger{})

		lsn, err := svc.Build(context.Background(), Request{Query: "photosynthesis"})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if lsn.TextAnswer != "No results found." || lsn.AudioURL != "" {
			t.Errorf("Build() = %+v", lsn)
		}
	})
}
