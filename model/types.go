package model

import "time"

// SnippetKind tells where a snippet came from.
type SnippetKind string

const (
	KindEncyclopedic SnippetKind = "encyclopedic"
	KindWeb          SnippetKind = "web"
)

// Snippet is one piece of retrieved source material.
type Snippet struct {
	Content        string      `json:"content"`
	Kind           SnippetKind `json:"kind"`
	Reference      string      `json:"reference"`
	RelevanceScore *float64    `json:"relevance_score,omitempty"`
}

// Score returns a pointer suitable for Snippet.RelevanceScore.
func Score(v float64) *float64 {
	return &v
}

// ResearchResult is the output of the research stage.
type ResearchResult struct {
	Topic     string    `json:"topic"`
	Summary   string    `json:"summary"`
	KeyPoints []string  `json:"key_points"`
	Sources   []Snippet `json:"sources"`
	Queries   []string  `json:"queries"`
}

// Section is one block of an outline.
type Section struct {
	Heading         string `json:"heading"`
	Body            string `json:"body"`
	TargetWordCount int    `json:"target_word_count"`
}

// BlogOutline is the output of the outline stage.
type BlogOutline struct {
	Topic        string    `json:"topic"`
	Title        string    `json:"title"`
	Introduction Section   `json:"introduction"`
	Body         []Section `json:"body"`
	Conclusion   Section   `json:"conclusion"`
	Audience     string    `json:"audience"`
	Tone         string    `json:"tone"`
}

// GeneratedArticle is the terminal artifact of a pipeline run.
type GeneratedArticle struct {
	Outline   BlogOutline    `json:"outline"`
	Content   string         `json:"content"`
	WordCount int            `json:"word_count"`
	Sources   []Snippet      `json:"sources"`
	Metadata  map[string]any `json:"metadata"`
}

// StageOutcome is the envelope every stage returns. Value is set only on
// success and ErrorMessage only on failure.
type StageOutcome[T any] struct {
	Success      bool          `json:"success"`
	Value        *T            `json:"value,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Succeeded wraps a successful stage value.
func Succeeded[T any](v T, elapsed time.Duration) StageOutcome[T] {
	return StageOutcome[T]{Success: true, Value: &v, Elapsed: elapsed}
}

// Failed wraps a stage failure. An empty message is replaced so that a failed
// outcome always explains itself.
func Failed[T any](msg string, elapsed time.Duration) StageOutcome[T] {
	if msg == "" {
		msg = "stage failed"
	}
	return StageOutcome[T]{ErrorMessage: msg, Elapsed: elapsed}
}

func (o StageOutcome[T]) ElapsedSeconds() float64 {
	return o.Elapsed.Seconds()
}
