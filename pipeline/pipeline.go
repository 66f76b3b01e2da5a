// Package pipeline sequences the research, outline and writing stages and
// stops at the first stage that fails.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"auto_blog_article_writer/logger"
	"auto_blog_article_writer/model"
)

// State is a pipeline run state.
type State string

const (
	StateIdle        State = "idle"
	StateResearching State = "researching"
	StateOutlining   State = "outlining"
	StateWriting     State = "writing"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

var transitions = map[State][]State{
	StateIdle:        {StateResearching, StateFailed},
	StateResearching: {StateOutlining, StateFailed},
	StateOutlining:   {StateWriting, StateFailed},
	StateWriting:     {StateDone, StateFailed},
}

// CanTransition reports whether the machine may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

type Researcher interface {
	Research(ctx context.Context, topic string) model.StageOutcome[model.ResearchResult]
}

type Outliner interface {
	Outline(ctx context.Context, research model.ResearchResult) model.StageOutcome[model.BlogOutline]
}

type Writer interface {
	Write(ctx context.Context, outline model.BlogOutline, research model.ResearchResult) model.StageOutcome[model.GeneratedArticle]
}

// Publisher persists a finished article and returns the paths it wrote.
type Publisher interface {
	Publish(ctx context.Context, article model.GeneratedArticle) ([]string, error)
}

// TimingEntry records how long one stage ran.
type TimingEntry struct {
	Stage    State         `json:"stage"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
}

// Result is everything a run produced. Research, Outline and Article are set
// for every stage that succeeded.
type Result struct {
	RunID        string                  `json:"run_id"`
	Topic        string                  `json:"topic"`
	State        State                   `json:"state"`
	FailedStage  State                   `json:"failed_stage,omitempty"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	Research     *model.ResearchResult   `json:"research,omitempty"`
	Outline      *model.BlogOutline      `json:"outline,omitempty"`
	Article      *model.GeneratedArticle `json:"article,omitempty"`
	Timings      []TimingEntry           `json:"timings"`
	Elapsed      time.Duration           `json:"elapsed"`
	Files        []string                `json:"files,omitempty"`
	// PublishErr is set when the article was produced but could not be
	// persisted. The run still counts as done.
	PublishErr error `json:"-"`
}

func (r Result) Succeeded() bool { return r.State == StateDone }

func (r Result) ElapsedSeconds() float64 { return r.Elapsed.Seconds() }

// Pipeline runs one topic through every stage. It keeps no state between
// runs; concurrent callers should still use one Pipeline each.
type Pipeline struct {
	researcher Researcher
	outliner   Outliner
	writer     Writer
	publisher  Publisher
	log        *logger.Logger

	// OnTransition, when set, is called after every state change.
	OnTransition func(runID string, from, to State)
}

// New wires the stages together. publisher may be nil.
func New(researcher Researcher, outliner Outliner, writer Writer, publisher Publisher, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{
		researcher: researcher,
		outliner:   outliner,
		writer:     writer,
		publisher:  publisher,
		log:        log,
	}
}

type run struct {
	p      *Pipeline
	log    *logger.Logger
	result Result
}

func (r *run) advance(to State) {
	from := r.result.State
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("pipeline: invalid transition %s -> %s", from, to))
	}
	r.result.State = to
	r.log.Debug("state transition", "from", from, "to", to)
	if r.p.OnTransition != nil {
		r.p.OnTransition(r.result.RunID, from, to)
	}
}

func (r *run) record(stage State, start time.Time, elapsed time.Duration, ok bool) {
	r.result.Timings = append(r.result.Timings, TimingEntry{Stage: stage, Start: start, Duration: elapsed, Success: ok})
	r.result.Elapsed += elapsed
}

func (r *run) fail(stage State, msg string) Result {
	r.result.FailedStage = stage
	r.result.ErrorMessage = msg
	r.advance(StateFailed)
	r.log.Error("pipeline failed", "stage", stage, "error", msg)
	return r.result
}

// Run executes the pipeline for topic. The first failing stage ends the run
// with that stage's message; later stages are not invoked.
func (p *Pipeline) Run(ctx context.Context, topic string) Result {
	id := uuid.NewString()
	r := &run{
		p:      p,
		log:    p.log.With("run_id", id),
		result: Result{RunID: id, Topic: topic, State: StateIdle},
	}

	if strings.TrimSpace(topic) == "" {
		return r.fail(StateIdle, "topic must not be empty")
	}
	r.log.Info("pipeline started", "topic", topic)

	r.advance(StateResearching)
	start := time.Now()
	research := p.researcher.Research(ctx, topic)
	r.record(StateResearching, start, research.Elapsed, research.Success)
	if !research.Success {
		return r.fail(StateResearching, research.ErrorMessage)
	}
	r.result.Research = research.Value

	r.advance(StateOutlining)
	start = time.Now()
	outline := p.outliner.Outline(ctx, *research.Value)
	r.record(StateOutlining, start, outline.Elapsed, outline.Success)
	if !outline.Success {
		return r.fail(StateOutlining, outline.ErrorMessage)
	}
	r.result.Outline = outline.Value

	r.advance(StateWriting)
	start = time.Now()
	article := p.writer.Write(ctx, *outline.Value, *research.Value)
	r.record(StateWriting, start, article.Elapsed, article.Success)
	if !article.Success {
		return r.fail(StateWriting, article.ErrorMessage)
	}
	r.result.Article = article.Value

	r.advance(StateDone)
	r.log.Info("pipeline complete", "words", article.Value.WordCount, "elapsed", r.result.Elapsed)

	if p.publisher != nil {
		files, err := p.publisher.Publish(ctx, *article.Value)
		if err != nil {
			r.log.Error("saving article failed", "error", err)
			r.result.PublishErr = err
		} else {
			r.result.Files = files
			r.log.Info("article saved", "files", files)
		}
	}
	return r.result
}
