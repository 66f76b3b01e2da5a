// Package parser turns free-form model output into structured values.
//
// Every function here is pure and total: malformed or empty input yields an
// empty result, never an error. Callers decide what fallback to use.
package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinLength filters headers and other noise lines out of list output.
const DefaultMinLength = 10

// enumerationChars are stripped from the start of list items.
const enumerationChars = "0123456789.-•* "

var titleRe = regexp.MustCompile(`^#\s+(\S.*)$`)

// ExtractItems returns at most maxItems list items from text, one per line,
// in their original order. Leading enumeration markers are removed, items
// shorter than minLength runes are dropped, and so are items starting with
// any of metaPrefixes (compared case-insensitively), which catches the model
// echoing an instruction header back.
func ExtractItems(text string, maxItems, minLength int, metaPrefixes ...string) []string {
	if maxItems <= 0 {
		return nil
	}
	items := make([]string, 0, maxItems)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < minLength {
			continue
		}
		item := strings.TrimSpace(strings.TrimLeft(line, enumerationChars))
		if item == "" || utf8.RuneCountInString(item) < minLength {
			continue
		}
		if hasMetaPrefix(item, metaPrefixes) {
			continue
		}
		items = append(items, item)
		if len(items) == maxItems {
			break
		}
	}
	return items
}

func hasMetaPrefix(item string, prefixes []string) bool {
	lower := strings.ToLower(item)
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// ExtractTitle finds the first line that is a level-one markdown heading
// ("# Title") and returns its text. "## Title" does not count.
func ExtractTitle(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		m := titleRe.FindStringSubmatch(strings.TrimSpace(line))
		if len(m) == 2 {
			if title := strings.TrimSpace(m[1]); title != "" {
				return title, true
			}
		}
	}
	return "", false
}

// NormalizeHeadings trims every line and rewrites "##" and "###" headings so
// exactly one space separates the marker from the heading text.
func NormalizeHeadings(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "## "):
			line = "## " + strings.TrimSpace(line[3:])
		case strings.HasPrefix(line, "### "):
			line = "### " + strings.TrimSpace(line[4:])
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// CountWords counts whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
