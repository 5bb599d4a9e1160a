package searchsvc

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/lesson"
)

// YouTubeSearchService implements lesson.VideoSearcher on the Data API v3.
type YouTubeSearchService struct {
	svc *youtube.Service
}

var _ lesson.VideoSearcher = (*YouTubeSearchService)(nil)

func NewYouTubeSearchService(conf *core.Config) (*YouTubeSearchService, error) {
	if conf.Search.YouTubeAPIKey == "" {
		return nil, ErrSearchNotConfigured
	}

	svc, err := youtube.NewService(context.Background(), option.WithAPIKey(conf.Search.YouTubeAPIKey))
	if err != nil {
		return nil, errors.Wrap(err, "creating youtube client")
	}
	return &YouTubeSearchService{svc: svc}, nil
}

func (s *YouTubeSearchService) SearchVideos(ctx context.Context, query string, n int) ([]lesson.VideoResult, error) {
	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query + " educational tutorial").
		Type("video").
		MaxResults(int64(n)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "calling youtube search")
	}

	videos := make([]lesson.VideoResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		videos = append(videos, lesson.VideoResult{
			Title:    item.Snippet.Title,
			WatchURL: fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id.VideoId),
		})
	}
	return videos, nil
}
