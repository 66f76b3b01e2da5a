package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_blog_article_writer/model"
	"auto_blog_article_writer/pipeline"
)

type okResearcher struct{ sources int }

func (o okResearcher) Research(_ context.Context, topic string) model.StageOutcome[model.ResearchResult] {
	if o.sources == 0 {
		return model.Failed[model.ResearchResult]("no research materials found for the topic", time.Millisecond)
	}
	src := make([]model.Snippet, o.sources)
	for i := range src {
		src[i] = model.Snippet{Content: "c", Kind: model.KindWeb, Reference: "r"}
	}
	return model.Succeeded(model.ResearchResult{Topic: topic, Sources: src, Queries: []string{topic}}, time.Millisecond)
}

type okOutliner struct{}

func (okOutliner) Outline(_ context.Context, r model.ResearchResult) model.StageOutcome[model.BlogOutline] {
	return model.Succeeded(model.BlogOutline{Topic: r.Topic, Title: r.Topic}, time.Millisecond)
}

type okWriter struct{}

func (okWriter) Write(_ context.Context, o model.BlogOutline, r model.ResearchResult) model.StageOutcome[model.GeneratedArticle] {
	return model.Succeeded(model.GeneratedArticle{Outline: o, Content: "# " + o.Title, WordCount: 2, Sources: r.Sources}, time.Millisecond)
}

func newTestServer(t *testing.T, sources int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	built := new(atomic.Int32)
	srv, err := New(func() *pipeline.Pipeline {
		built.Add(1)
		return pipeline.New(okResearcher{sources: sources}, okOutliner{}, okWriter{}, nil, nil)
	}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, built
}

func post(t *testing.T, url, body string) (*http.Response, runResp) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out runResp
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestCreateAndFetch(t *testing.T) {
	ts, built := newTestServer(t, 2)

	resp, created := post(t, ts.URL+"/api/articles", `{"topic":"Solar Power"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, pipeline.StateDone, created.State)
	require.NotNil(t, created.Article)
	assert.Equal(t, "# Solar Power", created.Article.Content)
	assert.NotEmpty(t, created.RunID)

	get, err := http.Get(ts.URL + "/api/articles/" + created.RunID)
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)
	var fetched runResp
	require.NoError(t, json.NewDecoder(get.Body).Decode(&fetched))
	assert.Equal(t, created.RunID, fetched.RunID)
	assert.Equal(t, created.Article.Content, fetched.Article.Content)

	post(t, ts.URL+"/api/articles", `{"topic":"Wind Power"}`)
	assert.Equal(t, int32(2), built.Load(), "one pipeline per request")
}

func TestCreate_FailedRun(t *testing.T) {
	ts, _ := newTestServer(t, 0)

	resp, out := post(t, ts.URL+"/api/articles", `{"topic":"Solar Power"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, pipeline.StateFailed, out.State)
	assert.Equal(t, pipeline.StateResearching, out.FailedStage)
	assert.Equal(t, "no research materials found for the topic", out.ErrorMessage)
}

func TestCreate_BadRequests(t *testing.T) {
	ts, built := newTestServer(t, 2)

	resp, _ := post(t, ts.URL+"/api/articles", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = post(t, ts.URL+"/api/articles", `{"topic":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(0), built.Load())
}

func TestGet_Unknown(t *testing.T) {
	ts, _ := newTestServer(t, 2)
	resp, err := http.Get(ts.URL + "/api/articles/does-not-exist")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, 2)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNew_RequiresFactory(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}
