package searchsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/lesson"
)

// overridable in tests
var unsplashBaseURL = "https://api.unsplash.com"

// UnsplashService implements lesson.ImageSearcher on the Unsplash search API.
type UnsplashService struct {
	accessKey string
	client    *http.Client
}

var _ lesson.ImageSearcher = (*UnsplashService)(nil)

func NewUnsplashService(conf *core.Config) (*UnsplashService, error) {
	if conf.Search.UnsplashAccessKey == "" {
		return nil, ErrSearchNotConfigured
	}
	return &UnsplashService{
		accessKey: conf.Search.UnsplashAccessKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

func (s *UnsplashService) SearchImages(ctx context.Context, query string, n int) ([]string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(n))
	params.Set("client_id", s.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, unsplashBaseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating unsplash request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling unsplash")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("calling unsplash: unexpected status %d", resp.StatusCode)
	}

	var payload unsplashSearchResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decoding unsplash response")
	}

	images := make([]string, 0, len(payload.Results))
	for _, res := range payload.Results {
		if res.URLs.Regular == "" {
			continue
		}
		images = append(images, res.URLs.Regular)
	}
	return images, nil
}
