package model

// SEOResult SEO 优化阶段的结构化输出。
// 前十个字段必填（键必须出现且非 null）；ReadabilityScore/CallToAction 可选，
// 缺省时序列化为 null，因为整个结构会原样回灌给终稿装配阶段。
// 校验失败是整条流水线的硬失败，不存在回退。
type SEOResult struct {
	Title            string   `json:"title"`
	MetaDescription  string   `json:"meta_description"`
	Slug             string   `json:"slug"`
	H1               string   `json:"h1"`
	H2s              []string `json:"h2s"`
	RevisedArticle   string   `json:"revised_article"`
	Improvements     []string `json:"improvements"`
	SEOKeywords      []string `json:"seo_keywords"`
	InternalLinks    []string `json:"internal_links"`
	ExternalLinks    []string `json:"external_links"`
	ReadabilityScore *float64 `json:"readability_score"`
	CallToAction     *string  `json:"call_to_action"`
}

// RequiredSEOFields 必填键列表，校验与 json_schema 保持同一来源。
var RequiredSEOFields = []string{
	"title",
	"meta_description",
	"slug",
	"h1",
	"h2s",
	"revised_article",
	"improvements",
	"seo_keywords",
	"internal_links",
	"external_links",
}
