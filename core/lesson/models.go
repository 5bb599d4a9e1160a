package lesson

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zuritech/elimu/core"
)

type (
	// Request asks for a lesson to be assembled around a query.
	Request struct {
		Query string `json:"query" validate:"required,max=500"`
	}

	// SearchResult is one web search hit backing the lesson text.
	SearchResult struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	}

	// VideoResult is one recommended video.
	VideoResult struct {
		Title    string `json:"title"`
		WatchURL string `json:"watch_url"`
	}

	// Lesson bundles everything assembled for a query. Sections whose
	// provider failed are empty.
	Lesson struct {
		Query       string        `json:"query"`
		TextAnswer  string        `json:"text_answer"` // markdown
		AudioURL    string        `json:"audio_url,omitempty"`
		Videos      []VideoResult `json:"videos"`
		Images      []string      `json:"images"`
		GeneratedAt time.Time     `json:"generated_at"` // UTC
	}
)

func (r *Request) Validate(validate *validator.Validate) error {
	r.Query = core.CleanString(r.Query)
	return validate.Struct(r)
}
