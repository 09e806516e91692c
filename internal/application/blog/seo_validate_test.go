package blog

import (
	"strings"
	"testing"
)

const validSEOJSON = `{
	"title": "Space Travel Explained",
	"meta_description": "A primer on space travel.",
	"slug": "space-travel-explained",
	"h1": "Space Travel",
	"h2s": ["Rockets", "Orbits"],
	"revised_article": "## Space Travel\n\nBody...",
	"improvements": ["added keywords"],
	"seo_keywords": ["space", "travel"],
	"internal_links": [],
	"external_links": ["https://example.com"],
	"readability_score": 72.5,
	"call_to_action": "Subscribe now"
}`

func TestParseSEOResultValid(t *testing.T) {
	res, jsonText, err := ParseSEOResult(validSEOJSON)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := ValidateSEOResult(res, jsonText); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if res.Title != "Space Travel Explained" {
		t.Errorf("title = %q", res.Title)
	}
	if len(res.H2s) != 2 {
		t.Errorf("h2s = %v", res.H2s)
	}
	if res.ReadabilityScore == nil || *res.ReadabilityScore != 72.5 {
		t.Errorf("readability_score = %v", res.ReadabilityScore)
	}
}

func TestParseSEOResultFenced(t *testing.T) {
	fenced := "Here is the result:\n```json\n" + validSEOJSON + "\n```"
	res, jsonText, err := ParseSEOResult(fenced)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := ValidateSEOResult(res, jsonText); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateSEOResultMissingRequired(t *testing.T) {
	missingTitle := `{
		"meta_description": "x",
		"slug": "x",
		"h1": "x",
		"h2s": [],
		"revised_article": "x",
		"improvements": [],
		"seo_keywords": [],
		"internal_links": [],
		"external_links": []
	}`
	res, jsonText, err := ParseSEOResult(missingTitle)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	err = ValidateSEOResult(res, jsonText)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "title is required") {
		t.Errorf("error = %q, want mention of title", err.Error())
	}
}

func TestValidateSEOResultNullRequired(t *testing.T) {
	nullSlug := strings.Replace(validSEOJSON, `"slug": "space-travel-explained"`, `"slug": null`, 1)
	res, jsonText, err := ParseSEOResult(nullSlug)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	err = ValidateSEOResult(res, jsonText)
	if err == nil {
		t.Fatal("expected validation error for null required field")
	}
	if !strings.Contains(err.Error(), "slug is required") {
		t.Errorf("error = %q, want mention of slug", err.Error())
	}
}

func TestParseSEOResultNotJSON(t *testing.T) {
	if _, _, err := ParseSEOResult("sorry, I cannot help"); err == nil {
		t.Fatal("expected error for non-json output")
	}
}

// 可选字段缺省时序列化为 null，回灌装配阶段的载荷必须保持键完整。
func TestSEOResultOptionalFieldsSerializeAsNull(t *testing.T) {
	noOptional := `{
		"title": "t",
		"meta_description": "m",
		"slug": "s",
		"h1": "h",
		"h2s": [],
		"revised_article": "r",
		"improvements": [],
		"seo_keywords": [],
		"internal_links": [],
		"external_links": []
	}`
	res, jsonText, err := ParseSEOResult(noOptional)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := ValidateSEOResult(res, jsonText); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if res.ReadabilityScore != nil || res.CallToAction != nil {
		t.Errorf("optional fields should stay nil when absent: %v %v",
			res.ReadabilityScore, res.CallToAction)
	}
}
