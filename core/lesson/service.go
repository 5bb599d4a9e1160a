package lesson

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zuritech/elimu/core"
)

const maxResults = 3

type (
	// WebSearcher backs the lesson's text answer with web search hits.
	WebSearcher interface {
		Search(ctx context.Context, query string, n int) ([]SearchResult, error)
	}

	// ImageSearcher finds illustration image URLs for a query.
	ImageSearcher interface {
		SearchImages(ctx context.Context, query string, n int) ([]string, error)
	}

	// VideoSearcher finds recommended videos for a query.
	VideoSearcher interface {
		SearchVideos(ctx context.Context, query string, n int) ([]VideoResult, error)
	}

	// SpeechSynthesizer turns text into a served audio file URL.
	SpeechSynthesizer interface {
		Synthesize(text string) (string, error)
	}

	ServiceInterface interface {
		Build(ctx context.Context, req Request) (Lesson, error)
	}

	service struct {
		web    WebSearcher
		images ImageSearcher
		videos VideoSearcher
		speech SpeechSynthesizer
		logger core.Logger
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(web WebSearcher, images ImageSearcher, videos VideoSearcher, speech SpeechSynthesizer, logger core.Logger) *service {
	return &service{web: web, images: images, videos: videos, speech: speech, logger: logger}
}

// Build assembles a lesson from all providers. A failing or unconfigured
// provider only empties its own section.
func (svc *service) Build(ctx context.Context, req Request) (Lesson, error) {
	lsn := Lesson{
		Query:       req.Query,
		Videos:      []VideoResult{},
		Images:      []string{},
		GeneratedAt: time.Now().UTC(),
	}

	var results []SearchResult
	if svc.web != nil {
		var err error
		if results, err = svc.web.Search(ctx, req.Query, maxResults); err != nil {
			svc.logger.Warn(fmt.Sprintf("lesson %q: web search failed: %v", req.Query, err))
		}
	}
	lsn.TextAnswer = renderTextAnswer(results)

	if svc.speech != nil {
		if url, err := svc.speech.Synthesize(lsn.TextAnswer); err != nil {
			svc.logger.Warn(fmt.Sprintf("lesson %q: speech synthesis failed: %v", req.Query, err))
		} else {
			lsn.AudioURL = url
		}
	}

	if svc.videos != nil {
		if vids, err := svc.videos.SearchVideos(ctx, req.Query, maxResults); err != nil {
			svc.logger.Warn(fmt.Sprintf("lesson %q: video search failed: %v", req.Query, err))
		} else if vids != nil {
			lsn.Videos = vids
		}
	}

	if svc.images != nil {
		if imgs, err := svc.images.SearchImages(ctx, req.Query, maxResults); err != nil {
			svc.logger.Warn(fmt.Sprintf("lesson %q: image search failed: %v", req.Query, err))
		} else if imgs != nil {
			lsn.Images = imgs
		}
	}

	return lsn, nil
}

// renderTextAnswer renders search hits as a markdown summary.
func renderTextAnswer(results []SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	parts := make([]string, 0, len(results)+1)
	parts = append(parts, "**Top Search Results:**")
	for _, res := range results {
		parts = append(parts, fmt.Sprintf("**%s**\n%s\n%s\n", res.Title, res.Snippet, res.Link))
	}
	return strings.Join(parts, "\n\n")
}
