package blog

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

const excerptRuneLimit = 200

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// ArticleStats 成稿的派生信息，归档入库与列表展示都用它。
type ArticleStats struct {
	Title          string
	Excerpt        string
	HTML           string
	WordCount      int
	ParagraphCount int
}

// AnalyzeArticle 从 markdown 成稿提取标题、摘要并渲染 HTML。
// 渲染失败时 HTML 置空，不阻塞归档主流程。
func AnalyzeArticle(md string) ArticleStats {
	trimmed := strings.TrimSpace(md)
	stats := ArticleStats{
		Title:          extractTitle(trimmed),
		Excerpt:        extractExcerpt(trimmed),
		WordCount:      len(strings.Fields(trimmed)),
		ParagraphCount: countParagraphs(trimmed),
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(trimmed), &buf); err == nil {
		stats.HTML = buf.String()
	}
	return stats
}

func extractTitle(md string) string {
	m := titleRe.FindStringSubmatch(md)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// 摘要取首个非标题、非空行；全文无正文时压缩全文截断兜底。
func extractExcerpt(md string) string {
	for _, line := range strings.Split(md, "\n") {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		return clipRunes(t, excerptRuneLimit)
	}
	return clipRunes(strings.Join(strings.Fields(md), " "), excerptRuneLimit)
}

// countParagraphs 以空行分隔统计段落块数。
func countParagraphs(md string) int {
	blocks := 0
	inBlock := false
	for _, line := range strings.Split(md, "\n") {
		if strings.TrimSpace(line) == "" {
			inBlock = false
			continue
		}
		if !inBlock {
			blocks++
			inBlock = true
		}
	}
	return blocks
}

func clipRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
