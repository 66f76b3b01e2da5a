// Package publisher persists finished articles: the markdown body, a JSON
// metadata sidecar and, optionally, a standalone HTML rendering.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"auto_blog_article_writer/logger"
	"auto_blog_article_writer/model"
)

const (
	maxSlugLength = 50
	digestLength  = 120
	fileTimestamp = "20060102_150405"
)

// Sidecar is the metadata file written next to every article.
type Sidecar struct {
	Topic               string         `json:"topic"`
	Title               string         `json:"title"`
	WordCount           int            `json:"word_count"`
	GenerationTimestamp string         `json:"generation_timestamp"`
	SourcesUsed         int            `json:"sources_used"`
	Digest              string         `json:"digest"`
	GenerationMetadata  map[string]any `json:"generation_metadata"`
}

// FilePublisher writes articles under Dir.
type FilePublisher struct {
	Dir  string
	HTML bool
	Now  func() time.Time
	log  *logger.Logger
}

func NewFilePublisher(dir string, withHTML bool, log *logger.Logger) *FilePublisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &FilePublisher{Dir: dir, HTML: withHTML, Now: time.Now, log: log}
}

// Publish writes blog_<slug>_<timestamp>.md plus its .json sidecar (and .html
// when enabled) and returns the written paths in that order.
func (p *FilePublisher) Publish(_ context.Context, article model.GeneratedArticle) ([]string, error) {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	now := p.Now()
	base := filepath.Join(p.Dir, fmt.Sprintf("blog_%s_%s", Slug(article.Outline.Topic), now.Format(fileTimestamp)))

	mdPath := base + ".md"
	if err := writeFileAtomic(mdPath, []byte(article.Content), 0o644); err != nil {
		return nil, fmt.Errorf("write article: %w", err)
	}
	p.log.Info("article saved", "path", mdPath)

	meta, err := json.MarshalIndent(Sidecar{
		Topic:               article.Outline.Topic,
		Title:               article.Outline.Title,
		WordCount:           article.WordCount,
		GenerationTimestamp: now.Format(time.RFC3339),
		SourcesUsed:         len(article.Sources),
		Digest:              Digest(article.Content, digestLength),
		GenerationMetadata:  article.Metadata,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	metaPath := base + ".json"
	if err := writeFileAtomic(metaPath, meta, 0o644); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	paths := []string{mdPath, metaPath}

	if p.HTML {
		doc, err := RenderHTML(article.Outline.Title, article.Content)
		if err != nil {
			return paths, fmt.Errorf("render html: %w", err)
		}
		htmlPath := base + ".html"
		if err := writeFileAtomic(htmlPath, []byte(doc), 0o644); err != nil {
			return paths, fmt.Errorf("write html: %w", err)
		}
		paths = append(paths, htmlPath)
	}
	return paths, nil
}

// Slug keeps letters, digits, spaces, '-' and '_' from topic, drops trailing
// whitespace, turns spaces into underscores and caps the result at 50 runes.
func Slug(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	s := strings.ReplaceAll(strings.TrimRightFunc(b.String(), unicode.IsSpace), " ", "_")
	if runes := []rune(s); len(runes) > maxSlugLength {
		s = string(runes[:maxSlugLength])
	}
	if s == "" {
		return "article"
	}
	return s
}

// RenderHTML converts markdown to a standalone HTML document.
func RenderHTML(title, md string) (string, error) {
	body, err := mdToHTML(md)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n<article>\n")
	b.WriteString(body)
	b.WriteString("</article>\n</body>\n</html>\n")
	return b.String(), nil
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Digest is the first limit runes of md with whitespace collapsed.
func Digest(md string, limit int) string {
	joined := strings.Join(strings.Fields(md), " ")
	if runes := []rune(joined); len(runes) > limit {
		return string(runes[:limit])
	}
	return joined
}

// writeFileAtomic writes to a temporary file, syncs it and renames it over
// path so a crash never leaves a half-written article.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
