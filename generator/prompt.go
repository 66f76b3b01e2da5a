package generator

import (
	"fmt"
	"strings"
	"time"
)

// Prompt names identify which pipeline step a prompt belongs to.
const (
	PromptSearchQueries    = "search_queries"
	PromptResearchAnalysis = "research_analysis"
	PromptKeyPoints        = "key_points"
	PromptOutline          = "outline"
	PromptArticle          = "article"
)

const dateLayout = "2006-01-02"

// Prompt is the message pair sent to the LLM.
type Prompt struct {
	Name   string
	System string
	User   string
}

// BuildQueriesPrompt asks for search queries covering a topic.
func BuildQueriesPrompt(topic string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate 3 specific search queries to research this topic: '%s'\n\n", topic))
	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("- Make each query specific and researchable\n")
	sb.WriteString("- Cover different aspects of the topic\n")
	sb.WriteString("- Queries should be suitable for encyclopedia and web search\n")
	sb.WriteString("- Return only the queries, one per line\n\n")
	sb.WriteString("SEARCH QUERIES (one per line, no numbering):")

	return Prompt{
		Name:   PromptSearchQueries,
		System: "You are a research librarian. Output only search queries.",
		User:   sb.String(),
	}
}

// BuildAnalysisPrompt asks for a synthesized summary of research materials.
func BuildAnalysisPrompt(topic, materials string, now time.Time) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("TOPIC: %s\n", topic))
	sb.WriteString(fmt.Sprintf("DATE: %s\n\n", now.Format(dateLayout)))
	sb.WriteString("RESEARCH MATERIALS:\n")
	sb.WriteString(materials)
	sb.WriteString("\nINSTRUCTIONS:\n")
	sb.WriteString("- Create a well-structured research summary (300-500 words)\n")
	sb.WriteString("- Focus on the most important and relevant information\n")
	sb.WriteString("- Extract key facts, data, and insights\n")
	sb.WriteString("- Organize information logically\n")
	sb.WriteString("- Maintain factual accuracy\n\n")
	sb.WriteString("RESEARCH SUMMARY:")

	return Prompt{
		Name:   PromptResearchAnalysis,
		System: "You are an expert research assistant. Analyze the research materials and create a comprehensive summary.",
		User:   sb.String(),
	}
}

// BuildKeyPointsPrompt asks for the key points of a research summary.
func BuildKeyPointsPrompt(topic, summary string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extract the key points from this research summary about '%s':\n\n", topic))
	sb.WriteString("RESEARCH SUMMARY:\n")
	sb.WriteString(summary)
	sb.WriteString("\n\nINSTRUCTIONS:\n")
	sb.WriteString("- Extract 3-5 most important key points\n")
	sb.WriteString("- Each point should be a clear, concise statement\n")
	sb.WriteString("- Focus on unique insights and important facts\n")
	sb.WriteString("- Make each point standalone and meaningful\n\n")
	sb.WriteString("KEY POINTS (one per line, no bullets):")

	return Prompt{
		Name:   PromptKeyPoints,
		System: "You distill research into short factual statements.",
		User:   sb.String(),
	}
}

// BuildOutlinePrompt asks for a blog outline grounded in research.
func BuildOutlinePrompt(topic, summary string, keyPoints []string, now time.Time) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("BLOG TOPIC: %s\n", topic))
	sb.WriteString(fmt.Sprintf("CURRENT DATE: %s\n\n", now.Format(dateLayout)))
	sb.WriteString("RESEARCH SUMMARY:\n")
	sb.WriteString(summary)
	sb.WriteString("\n\nKEY POINTS TO COVER:\n")
	for _, p := range keyPoints {
		sb.WriteString(fmt.Sprintf("- %s\n", p))
	}
	sb.WriteString("\nBLOG STRUCTURE REQUIREMENTS:\n")
	sb.WriteString("1. Heading: clear, engaging title as a level-one markdown heading (# Title)\n")
	sb.WriteString("2. Introduction: hook readers and explain why this topic matters\n")
	sb.WriteString("3. Content: 3-5 main sections with subpoints covering the key research findings\n")
	sb.WriteString("4. Summary: main takeaways and potential future developments\n\n")
	sb.WriteString("Audience: educated general readers. Tone: professional yet accessible.\n\n")
	sb.WriteString("BLOG OUTLINE:")

	return Prompt{
		Name:   PromptOutline,
		System: "You are an expert content strategist. Create a detailed blog outline based on the research provided.",
		User:   sb.String(),
	}
}

// BuildArticlePrompt asks for the full article in markdown.
func BuildArticlePrompt(topic, outline, summary string, now time.Time) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("BLOG TOPIC: %s\n", topic))
	sb.WriteString(fmt.Sprintf("CURRENT DATE: %s\n\n", now.Format(dateLayout)))
	sb.WriteString("BLOG OUTLINE:\n")
	sb.WriteString(outline)
	sb.WriteString("\n\nRESEARCH SUMMARY:\n")
	sb.WriteString(summary)
	sb.WriteString("\n\nWRITING INSTRUCTIONS:\n")
	sb.WriteString("1. Follow the outline structure exactly\n")
	sb.WriteString("2. Use the research findings to support your content with facts and data\n")
	sb.WriteString("3. Include specific examples and practical insights\n")
	sb.WriteString("4. Ensure smooth transitions between sections\n")
	sb.WriteString("5. Aim for 1200-1500 words total\n\n")
	sb.WriteString("FORMATTING REQUIREMENTS:\n")
	sb.WriteString("- Use Markdown with headings and subheadings as in the outline\n")
	sb.WriteString("- Use bullet points for lists where appropriate\n")
	sb.WriteString("- **Bold** important concepts and key takeaways\n")
	sb.WriteString("- Only use information from the research\n\n")
	sb.WriteString("BLOG CONTENT (in Markdown):")

	return Prompt{
		Name:   PromptArticle,
		System: "You are a professional blog writer. Output Markdown only, no extra commentary.",
		User:   sb.String(),
	}
}
