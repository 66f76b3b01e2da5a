// Package stages holds the three pipeline stages. Each stage takes its input,
// talks to the generation agent and returns a model.StageOutcome; no stage
// returns an error past its own boundary.
package stages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"auto_blog_article_writer/generator"
	"auto_blog_article_writer/logger"
	"auto_blog_article_writer/model"
	"auto_blog_article_writer/parser"
)

const (
	maxQueries      = 3
	maxWorkingQuery = 2
	maxSources      = 4
	maxKeyPoints    = 5

	queriesMetaPrefix   = "Here are"
	keyPointsMetaPrefix = "KEY POINTS"
)

// ErrNoSources is the one research failure that has no fallback.
var ErrNoSources = errors.New("no research materials found for the topic")

// SnippetLookup is the failure-absorbing lookup boundary. lookup.Client
// implements it.
type SnippetLookup interface {
	Lookup(ctx context.Context, query string) []model.Snippet
}

// Researcher runs the research stage.
type Researcher struct {
	agent        *generator.Agent
	encyclopedic SnippetLookup
	web          SnippetLookup
	log          *logger.Logger
	// Now stamps the analysis prompt.
	Now func() time.Time
}

func NewResearcher(agent *generator.Agent, encyclopedic, web SnippetLookup, log *logger.Logger) *Researcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Researcher{
		agent:        agent,
		encyclopedic: encyclopedic,
		web:          web,
		log:          log.With("stage", "research"),
		Now:          time.Now,
	}
}

// Research gathers sources for topic and distils them into a summary and key
// points. Only an empty source list fails the stage; every generation
// failure degrades to deterministic fallback text.
func (r *Researcher) Research(ctx context.Context, topic string) model.StageOutcome[model.ResearchResult] {
	start := time.Now()
	r.log.Info("starting research", "topic", topic)

	queries := r.workingQueries(ctx, topic)
	r.log.Info("generated search queries", "count", len(queries))

	sources := r.gather(ctx, queries)
	if len(sources) == 0 {
		r.log.Warn("research failed", "topic", topic, "error", ErrNoSources)
		return model.Failed[model.ResearchResult](ErrNoSources.Error(), time.Since(start))
	}

	summary := r.summarize(ctx, topic, sources)
	keyPoints := r.keyPoints(ctx, topic, summary)

	result := model.ResearchResult{
		Topic:     topic,
		Summary:   summary,
		KeyPoints: keyPoints,
		Sources:   sources,
		Queries:   queries,
	}
	elapsed := time.Since(start)
	r.log.Info("research complete", "sources", len(sources), "key_points", len(keyPoints), "elapsed", elapsed)
	return model.Succeeded(result, elapsed)
}

// workingQueries asks for candidate queries, keeps the usable ones and puts
// the topic first. Duplicates are dropped case-insensitively.
func (r *Researcher) workingQueries(ctx context.Context, topic string) []string {
	raw, _ := r.agent.Generate(ctx, generator.BuildQueriesPrompt(topic), generator.Recoverable, "")
	candidates := parser.ExtractItems(raw, maxQueries, parser.DefaultMinLength, queriesMetaPrefix)
	if len(candidates) == 0 {
		candidates = []string{topic}
	}

	queries := []string{topic}
	seen := map[string]bool{strings.ToLower(topic): true}
	for _, q := range candidates {
		n := utf8.RuneCountInString(q)
		if n <= 5 || n >= 100 {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		queries = append(queries, q)
	}
	if len(queries) > maxWorkingQuery {
		queries = queries[:maxWorkingQuery]
	}
	return queries
}

// gather looks every query up in both sources, query-major, and keeps the
// first maxSources snippets.
func (r *Researcher) gather(ctx context.Context, queries []string) []model.Snippet {
	var sources []model.Snippet
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			r.log.Warn("research interrupted", "query", q, "error", err)
			break
		}
		r.log.Debug("researching", "query", q)
		sources = append(sources, r.encyclopedic.Lookup(ctx, q)...)
		sources = append(sources, r.web.Lookup(ctx, q)...)
	}
	if len(sources) > maxSources {
		sources = sources[:maxSources]
	}
	return sources
}

func (r *Researcher) summarize(ctx context.Context, topic string, sources []model.Snippet) string {
	fallback := FallbackSummary(topic)
	prompt := generator.BuildAnalysisPrompt(topic, FormatMaterials(sources), r.Now())
	summary, _ := r.agent.Generate(ctx, prompt, generator.Recoverable, fallback)
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return fallback
	}
	return summary
}

func (r *Researcher) keyPoints(ctx context.Context, topic, summary string) []string {
	fallback := strings.Join(FallbackKeyPoints(topic), "\n")
	raw, _ := r.agent.Generate(ctx, generator.BuildKeyPointsPrompt(topic, summary), generator.Recoverable, fallback)
	points := parser.ExtractItems(raw, maxKeyPoints, parser.DefaultMinLength, keyPointsMetaPrefix)
	if len(points) == 0 {
		return []string{fmt.Sprintf("Key information about %s", topic)}
	}
	return points
}

// FormatMaterials renders snippets as the numbered materials block used in
// the analysis prompt.
func FormatMaterials(sources []model.Snippet) string {
	var sb strings.Builder
	for i, s := range sources {
		fmt.Fprintf(&sb, "Source %d (%s): %s\n", i+1, s.Kind, s.Reference)
		fmt.Fprintf(&sb, "Content: %s\n\n", s.Content)
	}
	return sb.String()
}

func FallbackSummary(topic string) string {
	return fmt.Sprintf("Research on %s revealed important insights about the subject. "+
		"Key areas include current developments, challenges, and future prospects.", topic)
}

func FallbackKeyPoints(topic string) []string {
	return []string{
		fmt.Sprintf("Important aspects of %s", topic),
		fmt.Sprintf("Current trends in %s", topic),
		fmt.Sprintf("Future implications of %s", topic),
	}
}
