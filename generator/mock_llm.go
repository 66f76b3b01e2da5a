package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is an offline stand-in that never calls an external model. It
// answers each prompt kind with fixed text derived from the prompt itself,
// so runs against it are deterministic.
type MockLLM struct{}

func (MockLLM) Name() string { return "mock" }

func (MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	subject := promptSubject(prompt.User)
	var sb strings.Builder
	switch prompt.Name {
	case PromptSearchQueries:
		sb.WriteString(fmt.Sprintf("%s overview and history\n", subject))
		sb.WriteString(fmt.Sprintf("%s current developments\n", subject))
		sb.WriteString(fmt.Sprintf("%s future challenges\n", subject))
	case PromptResearchAnalysis:
		sb.WriteString(fmt.Sprintf("The collected materials describe %s from several angles. ", subject))
		sb.WriteString("They cover its origins, the present state of practice, and the open questions that remain.")
	case PromptKeyPoints:
		sb.WriteString(fmt.Sprintf("%s has a well documented history\n", subject))
		sb.WriteString(fmt.Sprintf("Current work on %s focuses on practical adoption\n", subject))
		sb.WriteString(fmt.Sprintf("Open challenges will shape the future of %s\n", subject))
	case PromptOutline:
		sb.WriteString(fmt.Sprintf("# Understanding %s\n\n", subject))
		sb.WriteString("## Introduction\n- why it matters\n")
	default:
		sb.WriteString(fmt.Sprintf("# Understanding %s\n\n", subject))
		sb.WriteString("## Introduction\n\n")
		sb.WriteString(fmt.Sprintf("This article introduces %s.\n\n", subject))
		sb.WriteString("##   Conclusion\n\n")
		sb.WriteString("Generated offline by the mock model.\n")
	}
	return sb.String(), nil
}

// promptSubject pulls the topic out of the first line of a built prompt.
func promptSubject(user string) string {
	first, _, _ := strings.Cut(user, "\n")
	if i, j := strings.Index(first, "'"), strings.LastIndex(first, "'"); j > i {
		return first[i+1 : j]
	}
	if _, after, ok := strings.Cut(first, ":"); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(first)
}
