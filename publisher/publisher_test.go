package publisher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_blog_article_writer/model"
)

func sampleArticle() model.GeneratedArticle {
	return model.GeneratedArticle{
		Outline:   model.BlogOutline{Topic: "Solar Power: 2025 & Beyond!", Title: "Solar <Today>"},
		Content:   "# Solar <Today>\n\n## Growth\n\n| year | GW |\n|---|---|\n| 2024 | 450 |\n\n- cheaper\n- faster",
		WordCount: 20,
		Sources: []model.Snippet{
			{Content: "a", Kind: model.KindEncyclopedic, Reference: "Solar power"},
			{Content: "b", Kind: model.KindWeb, Reference: "https://example.org"},
		},
		Metadata: map[string]any{"research_queries_used": []string{"Solar Power"}},
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Solar Power", "Solar_Power"},
		{"Solar Power: 2025 & Beyond!", "Solar_Power_2025__Beyond"},
		{"  leading and trailing  ", "__leading_and_trailing"},
		{"keep-dashes_and_underscores", "keep-dashes_and_underscores"},
		{"Énergie solaire", "Énergie_solaire"},
		{strings.Repeat("abcde ", 20), strings.Repeat("abcde_", 8) + "ab"},
		{"?!", "article"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slug(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 50)
		})
	}
}

func TestPublish_WritesMarkdownAndSidecar(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	p := NewFilePublisher(dir, false, nil)
	p.Now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC) }

	paths, err := p.Publish(context.Background(), sampleArticle())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "blog_Solar_Power_2025__Beyond_20250314_093005.md"), paths[0])
	assert.Equal(t, filepath.Join(dir, "blog_Solar_Power_2025__Beyond_20250314_093005.json"), paths[1])

	body, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, sampleArticle().Content, string(body))

	raw, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "Solar Power: 2025 & Beyond!", meta["topic"])
	assert.Equal(t, "Solar <Today>", meta["title"])
	assert.EqualValues(t, 20, meta["word_count"])
	assert.EqualValues(t, 2, meta["sources_used"])
	assert.Equal(t, "2025-03-14T09:30:05Z", meta["generation_timestamp"])
	assert.Contains(t, meta, "generation_metadata")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestPublish_HTML(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewFilePublisher(dir, true, nil).Publish(context.Background(), sampleArticle())
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.True(t, strings.HasSuffix(paths[2], ".html"))

	doc, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	out := string(doc)
	assert.Contains(t, out, "<title>Solar &lt;Today&gt;</title>")
	assert.Contains(t, out, "<h2>Growth</h2>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<li>cheaper</li>")
}

func TestPublish_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewFilePublisher(filepath.Join(file, "sub"), false, nil).Publish(context.Background(), sampleArticle())
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "a b c", Digest("a\n\n b   c", 120))
	assert.Equal(t, "héllo", Digest("héllo world", 5))
}
