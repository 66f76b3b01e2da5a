package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"auto_blog_article_writer/model"
)

const (
	DefaultWikipediaURL = "https://en.wikipedia.org/api/rest_v1"
	DefaultTimeout      = 10 * time.Second
	userAgent           = "auto_blog_article_writer/1.0 (research lookup)"
)

// WikipediaSource fetches page summaries from the Wikipedia REST API.
type WikipediaSource struct {
	BaseURL string
	client  *http.Client
}

func NewWikipediaSource(baseURL string, timeout time.Duration) *WikipediaSource {
	if baseURL == "" {
		baseURL = DefaultWikipediaURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WikipediaSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (w *WikipediaSource) Kind() model.SnippetKind { return model.KindEncyclopedic }

func (w *WikipediaSource) Lookup(ctx context.Context, query string) ([]model.Snippet, error) {
	page := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(query), " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+"/page/summary/"+page, nil)
	if err != nil {
		return nil, &LookupError{Source: "wikipedia", Query: query, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, &LookupError{Source: "wikipedia", Query: query, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{Source: "wikipedia", Query: query, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LookupError{Source: "wikipedia", Query: query, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return nil, &LookupError{Source: "wikipedia", Query: query, Err: fmt.Errorf("invalid json response")}
	}

	content := strings.TrimSpace(gjson.GetBytes(body, "extract").String())
	if content == "" {
		content = fmt.Sprintf("Information about %s", query)
	}
	reference := strings.TrimSpace(gjson.GetBytes(body, "title").String())
	if reference == "" {
		reference = query
	}
	return []model.Snippet{{
		Content:        content,
		Kind:           model.KindEncyclopedic,
		Reference:      reference,
		RelevanceScore: model.Score(0.9),
	}}, nil
}
