package main

import (
	"fmt"

	"auto_blog_article_writer/config"
	"auto_blog_article_writer/generator"
	"auto_blog_article_writer/logger"
	"auto_blog_article_writer/lookup"
	"auto_blog_article_writer/pipeline"
	"auto_blog_article_writer/publisher"
	"auto_blog_article_writer/stages"
)

// wiring holds the process-wide collaborators. Pipelines built from it share
// the agent and the snippet cache but nothing else.
type wiring struct {
	cfg          config.Config
	agent        *generator.Agent
	encyclopedic *lookup.Client
	web          *lookup.Client
	log          *logger.Logger
	closers      []func() error
}

func newWiring(cfg config.Config, llm generator.LLMClient, log *logger.Logger) (*wiring, error) {
	agent, err := generator.NewAgent(llm, log.With("component", "generator"))
	if err != nil {
		return nil, err
	}
	w := &wiring{cfg: cfg, agent: agent, log: log}

	var snippets lookup.SnippetCache
	if cfg.Lookup.RedisURL != "" {
		rc, err := lookup.NewRedisCache(cfg.Lookup.RedisURL, cfg.CacheTTL())
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		w.closers = append(w.closers, rc.Close)
		snippets = rc
	} else {
		snippets = lookup.NewMemoryCache(cfg.CacheTTL())
	}

	timeout := cfg.LookupTimeout()
	w.encyclopedic = lookup.NewClient(
		lookup.NewCachedSource(lookup.NewWikipediaSource(cfg.Lookup.WikipediaURL, timeout), snippets), log)
	w.web = lookup.NewClient(
		lookup.NewCachedSource(lookup.NewWebSource(cfg.Lookup.WebURL, timeout), snippets), log)
	return w, nil
}

// Pipeline builds an independent pipeline. The publisher is attached only
// when save is set.
func (w *wiring) Pipeline(save, withHTML bool) *pipeline.Pipeline {
	var pub pipeline.Publisher
	if save {
		pub = publisher.NewFilePublisher(w.cfg.OutputDir, withHTML, w.log)
	}
	return pipeline.New(
		stages.NewResearcher(w.agent, w.encyclopedic, w.web, w.log),
		stages.NewOutliner(w.agent, w.log),
		stages.NewWriter(w.agent, w.log),
		pub,
		w.log,
	)
}

func (w *wiring) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
