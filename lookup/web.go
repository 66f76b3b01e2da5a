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

const DefaultWebURL = "https://api.duckduckgo.com/"

// WebSource queries the DuckDuckGo instant-answer API. It returns the page
// abstract when there is one, otherwise the first related-topic text, and an
// empty list when the engine has nothing for the query.
type WebSource struct {
	BaseURL string
	client  *http.Client
}

func NewWebSource(baseURL string, timeout time.Duration) *WebSource {
	if baseURL == "" {
		baseURL = DefaultWebURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WebSource{BaseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (w *WebSource) Kind() model.SnippetKind { return model.KindWeb }

func (w *WebSource) Lookup(ctx context.Context, query string) ([]model.Snippet, error) {
	u, err := url.Parse(w.BaseURL)
	if err != nil {
		return nil, &LookupError{Source: "web", Query: query, Err: err}
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &LookupError{Source: "web", Query: query, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, &LookupError{Source: "web", Query: query, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{Source: "web", Query: query, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LookupError{Source: "web", Query: query, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return nil, &LookupError{Source: "web", Query: query, Err: fmt.Errorf("invalid json response")}
	}

	result := gjson.ParseBytes(body)
	content := strings.TrimSpace(result.Get("AbstractText").String())
	reference := strings.TrimSpace(result.Get("AbstractURL").String())
	score := 0.8
	if content == "" {
		for _, topic := range result.Get("RelatedTopics.#.Text").Array() {
			if text := strings.TrimSpace(topic.String()); text != "" {
				content = text
				score = 0.6
				break
			}
		}
	}
	if content == "" {
		return nil, nil
	}
	if reference == "" {
		reference = "Web Search: " + query
	}
	return []model.Snippet{{
		Content:        content,
		Kind:           model.KindWeb,
		Reference:      reference,
		RelevanceScore: model.Score(score),
	}}, nil
}
