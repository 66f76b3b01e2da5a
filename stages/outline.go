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

const (
	Audience = "educated general readers and professionals"
	Tone     = "professional yet accessible"

	framingWordCount = 150
	sectionWordCount = 300
)

// CanonicalHeadings are the body sections of every outline, in order.
var CanonicalHeadings = []string{
	"Current Landscape and Trends",
	"Key Challenges and Opportunities",
	"Practical Applications and Case Studies",
	"Future Outlook and Implications",
}

// Outliner runs the outline stage.
type Outliner struct {
	agent *generator.Agent
	log   *logger.Logger
	Now   func() time.Time
}

func NewOutliner(agent *generator.Agent, log *logger.Logger) *Outliner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Outliner{agent: agent, log: log.With("stage", "outline"), Now: time.Now}
}

// Outline builds the article skeleton. The generated outline only supplies
// the title; the section structure is fixed, so the stage fails only when
// the generation call does.
func (o *Outliner) Outline(ctx context.Context, research model.ResearchResult) model.StageOutcome[model.BlogOutline] {
	start := time.Now()
	o.log.Info("creating outline", "topic", research.Topic)

	prompt := generator.BuildOutlinePrompt(research.Topic, research.Summary, research.KeyPoints, o.Now())
	raw, err := o.agent.Generate(ctx, prompt, generator.Fatal, "")
	if err != nil {
		return model.Failed[model.BlogOutline](fmt.Sprintf("outline creation failed: %v", err), time.Since(start))
	}

	title, ok := parser.ExtractTitle(raw)
	if !ok {
		title = research.Topic
	}
	o.log.Debug("generated outline body not used for structure", "outline", strings.TrimSpace(raw))

	outline := BuildOutline(research.Topic, title)
	elapsed := time.Since(start)
	o.log.Info("outline created", "title", title, "elapsed", elapsed)
	return model.Succeeded(outline, elapsed)
}

// BuildOutline assembles the fixed outline structure for topic.
func BuildOutline(topic, title string) model.BlogOutline {
	body := make([]model.Section, 0, len(CanonicalHeadings))
	for _, heading := range CanonicalHeadings {
		body = append(body, model.Section{
			Heading: heading,
			Body: fmt.Sprintf("Comprehensive analysis of %s, including relevant data, examples, and insights. "+
				"This section will explore specific aspects and provide detailed information to support the main arguments.",
				strings.ToLower(heading)),
			TargetWordCount: sectionWordCount,
		})
	}
	return model.BlogOutline{
		Topic: topic,
		Title: title,
		Introduction: model.Section{
			Heading: "Introduction",
			Body: "Engaging introduction that hooks the reader and explains the importance of the topic. " +
				"This section will provide context and set the stage for the detailed discussion to follow.",
			TargetWordCount: framingWordCount,
		},
		Body: body,
		Conclusion: model.Section{
			Heading: "Conclusion",
			Body: "Summary of key insights, main takeaways, and final thoughts. " +
				"This section will reinforce the main points and provide readers with clear actionable insights or recommendations.",
			TargetWordCount: framingWordCount,
		},
		Audience: Audience,
		Tone:     Tone,
	}
}
