package stages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"auto_blog_article_writer/generator"
	"auto_blog_article_writer/logger"
	"auto_blog_article_writer/model"
	"auto_blog_article_writer/parser"
)

// Metadata keys recorded on every article.
const (
	MetaQueriesUsed  = "research_queries_used"
	MetaKeyPoints    = "key_points_covered"
	MetaGeneratedAt  = "generation_timestamp"
	MetaModel        = "model"
	MetaOutlineTitle = "outline_title"
)

// Writer runs the writing stage.
type Writer struct {
	agent *generator.Agent
	log   *logger.Logger
	Now   func() time.Time
}

func NewWriter(agent *generator.Agent, log *logger.Logger) *Writer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Writer{agent: agent, log: log.With("stage", "writing"), Now: time.Now}
}

// Write turns an outline into the finished article. There is no fallback:
// a failed generation call fails the stage.
func (w *Writer) Write(ctx context.Context, outline model.BlogOutline, research model.ResearchResult) model.StageOutcome[model.GeneratedArticle] {
	start := time.Now()
	w.log.Info("writing article", "title", outline.Title)

	now := w.Now()
	prompt := generator.BuildArticlePrompt(outline.Topic, FormatOutline(outline), research.Summary, now)
	raw, err := w.agent.Generate(ctx, prompt, generator.Fatal, "")
	if err != nil {
		return model.Failed[model.GeneratedArticle](fmt.Sprintf("blog writing failed: %v", err), time.Since(start))
	}

	content := parser.NormalizeHeadings(strings.TrimSpace(raw))
	article := model.GeneratedArticle{
		Outline:   outline,
		Content:   content,
		WordCount: parser.CountWords(content),
		Sources:   research.Sources,
		Metadata: map[string]any{
			MetaQueriesUsed:  append([]string(nil), research.Queries...),
			MetaKeyPoints:    append([]string(nil), research.KeyPoints...),
			MetaGeneratedAt:  now.Format(time.RFC3339),
			MetaModel:        w.agent.Model(),
			MetaOutlineTitle: outline.Title,
		},
	}
	elapsed := time.Since(start)
	w.log.Info("writing complete", "words", article.WordCount, "elapsed", elapsed)
	return model.Succeeded(article, elapsed)
}

// FormatOutline renders an outline as the markdown skeleton given to the
// writing prompt.
func FormatOutline(o model.BlogOutline) string {
	lines := []string{
		"# " + o.Title,
		"",
		"## Introduction",
		o.Introduction.Body,
		"",
		"## Content",
	}
	for _, s := range o.Body {
		lines = append(lines, "### "+s.Heading, s.Body, "")
	}
	lines = append(lines,
		"## Summary",
		o.Conclusion.Body,
		"",
		"**Target Audience**: "+o.Audience,
		"**Tone**: "+o.Tone,
	)
	return strings.Join(lines, "\n")
}
