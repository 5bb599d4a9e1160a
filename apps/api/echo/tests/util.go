package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/zuritech/elimu/apps/api/echo"
	"github.com/zuritech/elimu/core/lesson"
	"github.com/zuritech/elimu/core/user"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	l1, ok1 := j1.([]interface{})
	l2, ok2 := j2.([]interface{})
	if ok1 && ok2 {
		return assert.ElementsMatch(t, l1, l2), nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// Lesson provider stubs; fields are set per test.

type webSearcherStub struct {
	results []lesson.SearchResult
	err     error
}

func (s *webSearcherStub) Search(_ context.Context, _ string, n int) ([]lesson.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) > n {
		return s.results[:n], nil
	}
	return s.results, nil
}

type imageSearcherStub struct {
	urls []string
	err  error
}

func (s *imageSearcherStub) SearchImages(_ context.Context, _ string, n int) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.urls) > n {
		return s.urls[:n], nil
	}
	return s.urls, nil
}

type videoSearcherStub struct {
	results []lesson.VideoResult
	err     error
}

func (s *videoSearcherStub) SearchVideos(_ context.Context, _ string, n int) ([]lesson.VideoResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) > n {
		return s.results[:n], nil
	}
	return s.results, nil
}

type speechStub struct {
	url string
	err error
}

func (s *speechStub) Synthesize(string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}
