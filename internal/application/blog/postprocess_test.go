package blog

import (
	"strings"
	"testing"
)

func TestAnalyzeArticle(t *testing.T) {
	md := "# Space Travel\n\nRockets go up fast.\n\nOrbits are hard.\n\n## Re-entry\n\nRe-entry is hot."

	stats := AnalyzeArticle(md)

	if stats.Title != "Space Travel" {
		t.Errorf("title = %q", stats.Title)
	}
	if stats.Excerpt != "Rockets go up fast." {
		t.Errorf("excerpt = %q", stats.Excerpt)
	}
	if stats.ParagraphCount != 5 {
		t.Errorf("paragraph count = %d, want 5", stats.ParagraphCount)
	}
	if stats.WordCount == 0 {
		t.Error("word count should be positive")
	}
	if !strings.Contains(stats.HTML, "<h1>") {
		t.Errorf("html missing rendered heading: %q", stats.HTML)
	}
}

func TestAnalyzeArticleNoHeading(t *testing.T) {
	stats := AnalyzeArticle("just a single paragraph without any heading")
	if stats.Title != "" {
		t.Errorf("title = %q, want empty", stats.Title)
	}
	if stats.Excerpt == "" {
		t.Error("excerpt should fall back to body text")
	}
	if stats.ParagraphCount != 1 {
		t.Errorf("paragraph count = %d, want 1", stats.ParagraphCount)
	}
}

func TestAnalyzeArticleEmpty(t *testing.T) {
	stats := AnalyzeArticle("   \n  ")
	if stats.WordCount != 0 || stats.ParagraphCount != 0 {
		t.Errorf("empty article stats = %+v", stats)
	}
}
