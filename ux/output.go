// Package ux renders pipeline progress and results on the terminal.
package ux

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"auto_blog_article_writer/model"
	"auto_blog_article_writer/pipeline"
)

const rule = "════════════════════════════════════════════════════════"

var (
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

// stageTitles orders the working states for the progress header.
var stageTitles = []struct {
	state pipeline.State
	title string
}{
	{pipeline.StateResearching, "RESEARCH"},
	{pipeline.StateOutlining, "OUTLINING"},
	{pipeline.StateWriting, "WRITING"},
}

// Console writes human-readable output to W.
type Console struct {
	W   io.Writer
	Now func() time.Time
}

func NewConsole(w io.Writer) *Console {
	return &Console{W: w, Now: time.Now}
}

func (c *Console) timestamp() string {
	return c.Now().Format("15:04:05")
}

// Welcome greets the user in interactive mode.
func (c *Console) Welcome() {
	bold.Fprintln(c.W, "Welcome to the blog article writer!")
	fmt.Fprintln(c.W)
}

// Banner opens a run.
func (c *Console) Banner(topic string) {
	cyan.Fprintln(c.W, rule)
	bold.Fprintln(c.W, "BLOG GENERATION - starting pipeline")
	cyan.Fprintln(c.W, rule)
	fmt.Fprintf(c.W, "Topic: %s\n", topic)
	fmt.Fprintf(c.W, "Timestamp: %s\n\n", c.Now().Format("2006-01-02 15:04:05"))
}

// Transition is a pipeline.OnTransition hook that prints stage headers and
// the terminal state.
func (c *Console) Transition(_ string, _, to pipeline.State) {
	for i, s := range stageTitles {
		if s.state == to {
			c.StageHeader(i, len(stageTitles), s.title)
			return
		}
	}
}

// StageHeader prints a timestamped stage header.
func (c *Console) StageHeader(index, total int, title string) {
	fmt.Fprintln(c.W)
	dim.Fprintf(c.W, "[%s] ", c.timestamp())
	bold.Fprintf(c.W, "PHASE %d/%d: %s\n", index+1, total, title)
}

// Result summarises a finished run.
func (c *Console) Result(res pipeline.Result) {
	for _, t := range res.Timings {
		if t.Success {
			green.Fprintf(c.W, "  ✓ %s (%.2fs)\n", t.Stage, t.Duration.Seconds())
		} else {
			red.Fprintf(c.W, "  ✗ %s (%.2fs)\n", t.Stage, t.Duration.Seconds())
		}
	}
	if !res.Succeeded() {
		red.Fprintf(c.W, "\n✗ %s failed: %s\n", res.FailedStage, res.ErrorMessage)
		return
	}

	a := res.Article
	fmt.Fprintln(c.W)
	green.Fprintln(c.W, rule)
	bold.Fprintln(c.W, "BLOG GENERATION COMPLETED SUCCESSFULLY")
	green.Fprintln(c.W, rule)
	fmt.Fprintf(c.W, "Total processing time: %.2fs\n", res.ElapsedSeconds())
	fmt.Fprintf(c.W, "Word count: %d words\n", a.WordCount)
	fmt.Fprintf(c.W, "Sources used: %d\n\n", len(a.Sources))
	fmt.Fprintln(c.W, FormatSources(a.Sources))
	fmt.Fprintln(c.W)
	bold.Fprintln(c.W, "GENERATED BLOG CONTENT:")
	fmt.Fprintln(c.W, rule)
	fmt.Fprintln(c.W, a.Content)
	fmt.Fprintln(c.W, rule)

	if res.PublishErr != nil {
		red.Fprintf(c.W, "✗ saving failed: %v\n", res.PublishErr)
	}
	for _, f := range res.Files {
		green.Fprintf(c.W, "✓ Output saved to: %s\n", f)
	}
}

// Notice prints a highlighted one-line message.
func (c *Console) Notice(format string, args ...any) {
	yellow.Fprintf(c.W, format+"\n", args...)
}

// Error prints a one-line error.
func (c *Console) Error(format string, args ...any) {
	red.Fprintf(c.W, "✗ "+format+"\n", args...)
}

// FormatSources renders a numbered source list.
func FormatSources(sources []model.Snippet) string {
	if len(sources) == 0 {
		return "No sources available."
	}
	lines := make([]string, 0, len(sources))
	for i, s := range sources {
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, strings.ToUpper(string(s.Kind)), s.Reference))
	}
	return strings.Join(lines, "\n")
}
