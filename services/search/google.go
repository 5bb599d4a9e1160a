package searchsvc

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/lesson"
)

// ErrSearchNotConfigured is returned when a search provider has no credentials.
var ErrSearchNotConfigured = errors.New("search service not configured")

// GoogleSearchService implements lesson.WebSearcher on the Custom Search API.
type GoogleSearchService struct {
	svc  *customsearch.Service
	cxID string
}

var _ lesson.WebSearcher = (*GoogleSearchService)(nil)

func NewGoogleSearchService(conf *core.Config) (*GoogleSearchService, error) {
	if conf.Search.GoogleAPIKey == "" || conf.Search.GoogleCxID == "" {
		return nil, ErrSearchNotConfigured
	}

	svc, err := customsearch.NewService(context.Background(), option.WithAPIKey(conf.Search.GoogleAPIKey))
	if err != nil {
		return nil, errors.Wrap(err, "creating custom search client")
	}
	return &GoogleSearchService{svc: svc, cxID: conf.Search.GoogleCxID}, nil
}

func (s *GoogleSearchService) Search(ctx context.Context, query string, n int) ([]lesson.SearchResult, error) {
	resp, err := s.svc.Cse.List().
		Cx(s.cxID).
		Q(query).
		Num(int64(n)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "calling custom search")
	}

	results := make([]lesson.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if len(results) >= n {
			break
		}
		results = append(results, lesson.SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}
	return results, nil
}
