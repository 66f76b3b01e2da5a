package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_blog_article_writer/model"
)

type fakeResearcher struct {
	outcome model.StageOutcome[model.ResearchResult]
	calls   int
}

func (f *fakeResearcher) Research(context.Context, string) model.StageOutcome[model.ResearchResult] {
	f.calls++
	return f.outcome
}

type fakeOutliner struct {
	outcome model.StageOutcome[model.BlogOutline]
	calls   int
}

func (f *fakeOutliner) Outline(context.Context, model.ResearchResult) model.StageOutcome[model.BlogOutline] {
	f.calls++
	return f.outcome
}

type fakeWriter struct {
	outcome model.StageOutcome[model.GeneratedArticle]
	calls   int
}

func (f *fakeWriter) Write(context.Context, model.BlogOutline, model.ResearchResult) model.StageOutcome[model.GeneratedArticle] {
	f.calls++
	return f.outcome
}

type fakePublisher struct {
	err      error
	articles []model.GeneratedArticle
}

func (f *fakePublisher) Publish(_ context.Context, a model.GeneratedArticle) ([]string, error) {
	f.articles = append(f.articles, a)
	if f.err != nil {
		return nil, f.err
	}
	return []string{"out/blog_solar.md", "out/blog_solar.json"}, nil
}

func okStages() (*fakeResearcher, *fakeOutliner, *fakeWriter) {
	research := model.ResearchResult{Topic: "Solar Power", Summary: "s", KeyPoints: []string{"k"},
		Sources: []model.Snippet{{Content: "c", Kind: model.KindWeb, Reference: "r"}}, Queries: []string{"Solar Power"}}
	outline := model.BlogOutline{Topic: "Solar Power", Title: "Solar"}
	article := model.GeneratedArticle{Outline: outline, Content: "# Solar\n\ntext", WordCount: 3}
	return &fakeResearcher{outcome: model.Succeeded(research, 2*time.Second)},
		&fakeOutliner{outcome: model.Succeeded(outline, time.Second)},
		&fakeWriter{outcome: model.Succeeded(article, 3*time.Second)}
}

func TestRun_Success(t *testing.T) {
	r, o, w := okStages()
	pub := &fakePublisher{}
	p := New(r, o, w, pub, nil)

	var seen []State
	p.OnTransition = func(_ string, _, to State) { seen = append(seen, to) }

	res := p.Run(context.Background(), "Solar Power")
	assert.True(t, res.Succeeded())
	assert.Equal(t, StateDone, res.State)
	assert.Empty(t, res.ErrorMessage)
	assert.Equal(t, []State{StateResearching, StateOutlining, StateWriting, StateDone}, seen)
	assert.Equal(t, 6*time.Second, res.Elapsed)
	assert.Equal(t, 6.0, res.ElapsedSeconds())
	require.Len(t, res.Timings, 3)
	assert.Equal(t, StateOutlining, res.Timings[1].Stage)
	assert.Equal(t, time.Second, res.Timings[1].Duration)

	require.NotNil(t, res.Article)
	require.NotNil(t, res.Outline)
	require.NotNil(t, res.Research)
	require.Len(t, pub.articles, 1)
	assert.Equal(t, *res.Article, pub.articles[0])
	assert.Equal(t, []string{"out/blog_solar.md", "out/blog_solar.json"}, res.Files)

	_, err := uuid.Parse(res.RunID)
	assert.NoError(t, err)
}

func TestRun_FailsFast(t *testing.T) {
	tests := []struct {
		name       string
		breakStage func(*fakeResearcher, *fakeOutliner, *fakeWriter)
		stage      State
		msg        string
		calls      [3]int
	}{
		{
			name: "research",
			breakStage: func(r *fakeResearcher, _ *fakeOutliner, _ *fakeWriter) {
				r.outcome = model.Failed[model.ResearchResult]("no research materials found for the topic", time.Second)
			},
			stage: StateResearching,
			msg:   "no research materials found for the topic",
			calls: [3]int{1, 0, 0},
		},
		{
			name: "outline",
			breakStage: func(_ *fakeResearcher, o *fakeOutliner, _ *fakeWriter) {
				o.outcome = model.Failed[model.BlogOutline]("outline creation failed: boom", time.Second)
			},
			stage: StateOutlining,
			msg:   "outline creation failed: boom",
			calls: [3]int{1, 1, 0},
		},
		{
			name: "writing",
			breakStage: func(_ *fakeResearcher, _ *fakeOutliner, w *fakeWriter) {
				w.outcome = model.Failed[model.GeneratedArticle]("blog writing failed: boom", time.Second)
			},
			stage: StateWriting,
			msg:   "blog writing failed: boom",
			calls: [3]int{1, 1, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, o, w := okStages()
			tt.breakStage(r, o, w)
			pub := &fakePublisher{}

			res := New(r, o, w, pub, nil).Run(context.Background(), "Solar Power")
			assert.False(t, res.Succeeded())
			assert.Equal(t, StateFailed, res.State)
			assert.Equal(t, tt.stage, res.FailedStage)
			assert.Equal(t, tt.msg, res.ErrorMessage)
			assert.Equal(t, tt.calls, [3]int{r.calls, o.calls, w.calls})
			assert.Nil(t, res.Article)
			assert.Empty(t, pub.articles)
			assert.Empty(t, res.Files)
		})
	}
}

func TestRun_PublishFailureKeepsDone(t *testing.T) {
	r, o, w := okStages()
	pub := &fakePublisher{err: errors.New("disk full")}

	res := New(r, o, w, pub, nil).Run(context.Background(), "Solar Power")
	assert.Equal(t, StateDone, res.State)
	assert.EqualError(t, res.PublishErr, "disk full")
	assert.Empty(t, res.Files)
}

func TestRun_WithoutPublisher(t *testing.T) {
	r, o, w := okStages()
	res := New(r, o, w, nil, nil).Run(context.Background(), "Solar Power")
	assert.True(t, res.Succeeded())
	assert.Nil(t, res.PublishErr)
}

func TestRun_EmptyTopic(t *testing.T) {
	r, o, w := okStages()
	res := New(r, o, w, nil, nil).Run(context.Background(), "   ")
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 0, r.calls)
	assert.NotEmpty(t, res.ErrorMessage)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StateIdle, StateResearching))
	assert.True(t, CanTransition(StateWriting, StateDone))
	assert.False(t, CanTransition(StateIdle, StateWriting))
	assert.False(t, CanTransition(StateDone, StateResearching))
	assert.False(t, CanTransition(StateFailed, StateIdle))
	assert.True(t, StateDone.Terminal())
	assert.False(t, StateOutlining.Terminal())
}

func TestRun_IndependentRunIDs(t *testing.T) {
	r, o, w := okStages()
	p := New(r, o, w, nil, nil)
	assert.NotEqual(t, p.Run(context.Background(), "a topic").RunID, p.Run(context.Background(), "a topic").RunID)
}
