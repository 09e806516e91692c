package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	blogmodel "blogsmith-ai-api/internal/application/blog/model"
	"blogsmith-ai-api/internal/config"
)

// fakeChatModel 按脚本回放回复，并记录每次调用收到的消息序列。
type fakeChatModel struct {
	mu      sync.Mutex
	calls   [][]*schema.Message
	replies []string
	errs    []error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := len(f.calls)
	msgs := make([]*schema.Message, len(input))
	copy(msgs, input)
	f.calls = append(f.calls, msgs)

	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx >= len(f.replies) {
		return nil, fmt.Errorf("unexpected llm call %d", idx)
	}
	return schema.AssistantMessage(f.replies[idx], nil), nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("stream not supported")
}

func (f *fakeChatModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeChatModel) call(i int) []*schema.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

type fakeFactory struct {
	model model.BaseChatModel
}

func (f *fakeFactory) Get(context.Context, string) (model.BaseChatModel, error) {
	return f.model, nil
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "test",
			Providers: map[string]config.ProviderConfig{
				"test": {Model: "test-model"},
			},
			Roles: config.RolesConfig{
				Extraction: config.RoleConfig{Provider: "test"},
				Draft:      config.RoleConfig{Provider: "test"},
				SEO:        config.RoleConfig{Provider: "test"},
			},
		},
	}
}

func messagesText(msgs []*schema.Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		if m != nil {
			sb.WriteString(m.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func TestPipelineEndToEndWithTopic(t *testing.T) {
	const draft = "# Space Travel\n\nRockets go up.\n\nOrbits are hard.\n\nRe-entry is hot."
	const final = "# Space Travel, Optimized\n\nFinal content."

	fake := &fakeChatModel{replies: []string{draft, validSEOJSON, final}}
	p := NewPipeline(testConfig(), &fakeFactory{model: fake})

	res, err := p.Run(context.Background(), &blogmodel.BlogRequest{Topic: "space travel", Length: 3})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if res.Content != final {
		t.Errorf("content = %q, want final assembly output", res.Content)
	}
	if res.Params.Topic != "space travel" || res.Params.Length != 3 {
		t.Errorf("params = %+v, want explicit topic carried through", res.Params)
	}

	// 显式 topic 跳过提取：三次调用分别是草稿、SEO、装配。
	if got := fake.callCount(); got != 3 {
		t.Fatalf("llm calls = %d, want 3", got)
	}

	draftCall := messagesText(fake.call(0))
	if !strings.Contains(draftCall, "space travel") || !strings.Contains(draftCall, "3") {
		t.Errorf("draft call missing topic/length bindings:\n%s", draftCall)
	}

	seoCall := messagesText(fake.call(1))
	if !strings.Contains(seoCall, "Rockets go up.") {
		t.Errorf("seo call missing draft article:\n%s", seoCall)
	}

	// 装配调用必须带上草稿会话历史与序列化的 SEO 结果。
	assemblyMsgs := fake.call(2)
	assemblyCall := messagesText(assemblyMsgs)
	if !strings.Contains(assemblyCall, draft) {
		t.Errorf("assembly call missing draft thread history:\n%s", assemblyCall)
	}
	last := assemblyMsgs[len(assemblyMsgs)-1]
	var replayed blogmodel.SEOResult
	if err := json.Unmarshal([]byte(last.Content), &replayed); err != nil {
		t.Fatalf("assembly user message is not the serialized seo result: %v", err)
	}
	if replayed.Title != "Space Travel Explained" {
		t.Errorf("replayed seo title = %q", replayed.Title)
	}
}

func TestPipelineExtractionFallback(t *testing.T) {
	const prompt = "please write something about the history of coffee"
	const draft = "# Coffee\n\nBeans."
	const final = "# Coffee, Optimized"

	// 提取链返回的不是 JSON，流水线必须回退到原始 prompt 继续。
	fake := &fakeChatModel{replies: []string{"not json", draft, validSEOJSON, final}}
	p := NewPipeline(testConfig(), &fakeFactory{model: fake})

	res, err := p.Run(context.Background(), &blogmodel.BlogRequest{
		Prompt: prompt,
		Length: blogmodel.DefaultRequestLength,
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if res.Params.Topic != prompt {
		t.Errorf("fallback topic = %q, want raw prompt", res.Params.Topic)
	}
	if res.Params.Length != blogmodel.DefaultRequestLength {
		t.Errorf("fallback length = %d, want %d", res.Params.Length, blogmodel.DefaultRequestLength)
	}
	if res.Content != final {
		t.Errorf("content = %q", res.Content)
	}
	if got := fake.callCount(); got != 4 {
		t.Errorf("llm calls = %d, want 4 (extraction + three stages)", got)
	}
}

func TestPipelineExtractionSuccess(t *testing.T) {
	const draft = "# Coffee\n\nBeans."
	const final = "done"

	extracted := `{"topic": "history of coffee", "length": 25}`
	fake := &fakeChatModel{replies: []string{extracted, draft, validSEOJSON, final}}
	p := NewPipeline(testConfig(), &fakeFactory{model: fake})

	res, err := p.Run(context.Background(), &blogmodel.BlogRequest{
		Prompt: "tell me about the history of coffee, as long as possible",
		Length: blogmodel.DefaultRequestLength,
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if res.Params.Topic != "history of coffee" {
		t.Errorf("topic = %q", res.Params.Topic)
	}
	if res.Params.Length != blogmodel.MaxLength {
		t.Errorf("length = %d, want clamped %d", res.Params.Length, blogmodel.MaxLength)
	}
}

func TestPipelineSEOValidationFailureAbortsRun(t *testing.T) {
	const draft = "# Space Travel\n\nRockets."
	badSEO := `{"meta_description": "x", "slug": "x"}`

	fake := &fakeChatModel{replies: []string{draft, badSEO}}
	p := NewPipeline(testConfig(), &fakeFactory{model: fake})

	_, err := p.Run(context.Background(), &blogmodel.BlogRequest{Topic: "space travel", Length: 3})
	if err == nil {
		t.Fatal("expected hard failure on seo validation")
	}
	// 故障带回原始输出，方便排查模型到底回了什么。
	if !strings.Contains(err.Error(), badSEO) {
		t.Errorf("error should carry raw seo output, got: %v", err)
	}
	if !strings.Contains(err.Error(), "title is required") {
		t.Errorf("error should carry validation detail, got: %v", err)
	}
	// 校验失败后不得再调装配。
	if got := fake.callCount(); got != 2 {
		t.Errorf("llm calls = %d, want 2 (assembly must not run)", got)
	}
}

func TestPipelineDraftFailurePropagates(t *testing.T) {
	fake := &fakeChatModel{errs: []error{fmt.Errorf("upstream unavailable")}}
	p := NewPipeline(testConfig(), &fakeFactory{model: fake})

	_, err := p.Run(context.Background(), &blogmodel.BlogRequest{Topic: "space travel", Length: 3})
	if err == nil {
		t.Fatal("expected draft failure to propagate")
	}
	if !strings.Contains(err.Error(), "draft generation failed") {
		t.Errorf("error = %v", err)
	}
}
