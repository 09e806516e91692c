package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	blogmodel "blogsmith-ai-api/internal/application/blog/model"
	"blogsmith-ai-api/internal/config"
	workflowchain "blogsmith-ai-api/internal/workflow/chain"
	wfmodel "blogsmith-ai-api/internal/workflow/model"
	workflowport "blogsmith-ai-api/internal/workflow/port"
	apperrors "blogsmith-ai-api/pkg/errors"
	"blogsmith-ai-api/pkg/logger"
	"blogsmith-ai-api/pkg/metrics"
)

// Pipeline 博客生成流水线：参数决议 → 初稿 → SEO 优化 → 终稿装配。
// 参数提取失败回退到原始 prompt；其余阶段失败即中止，不做重试。
type Pipeline struct {
	llmCfg     *config.LLMConfig
	extraction *workflowchain.ParamExtractionChain
	draft      *workflowchain.BlogDraftChain
	seo        *workflowchain.SEOOptimizeChain
	assembly   *workflowchain.FinalAssemblyChain
}

// PipelineResult 一次完整运行的产物。
type PipelineResult struct {
	Content string
	Params  blogmodel.ExtractedParams
	SEO     *blogmodel.SEOResult
}

func NewPipeline(cfg *config.Config, factory workflowport.ChatModelFactory) *Pipeline {
	return &Pipeline{
		llmCfg:     &cfg.LLM,
		extraction: workflowchain.NewParamExtractionChain(factory),
		draft:      workflowchain.NewBlogDraftChain(factory),
		seo:        workflowchain.NewSEOOptimizeChain(factory),
		assembly:   workflowchain.NewFinalAssemblyChain(factory),
	}
}

// Run 执行整条流水线并记录运行指标。
func (p *Pipeline) Run(ctx context.Context, req *blogmodel.BlogRequest) (*PipelineResult, error) {
	if p == nil || p.draft == nil {
		return nil, apperrors.New(apperrors.CodeInternalError, "blog pipeline not configured")
	}
	if req == nil {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "request is nil")
	}

	start := time.Now()
	logger.Info(ctx, "start blog pipeline", "request", describeRequest(req))

	result, err := p.run(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
		logger.Error(ctx, "blog pipeline failed", err)
	} else {
		logger.Info(ctx, "blog pipeline finished",
			"topic", previewText(result.Params.Topic, 60),
			"length", result.Params.Length,
			"content_chars", len(result.Content))
	}
	metrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	metrics.PipelineRunDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return result, err
}

func (p *Pipeline) run(ctx context.Context, req *blogmodel.BlogRequest) (*PipelineResult, error) {
	params := p.resolveParams(ctx, req)
	logger.Info(ctx, "writing parameters resolved",
		"topic", previewText(params.Topic, 60), "length", params.Length)

	draftRes, err := p.stageDraft(ctx, params)
	if err != nil {
		return nil, err
	}

	seoRes, seoPayload, err := p.stageSEO(ctx, draftRes.Message.Content)
	if err != nil {
		return nil, err
	}

	content, err := p.stageAssembly(ctx, params, seoPayload, draftRes.Thread)
	if err != nil {
		return nil, err
	}

	return &PipelineResult{Content: content, Params: params, SEO: seoRes}, nil
}

// stageDraft 生成初稿并保留会话，供终稿装配复用。
func (p *Pipeline) stageDraft(ctx context.Context, params blogmodel.ExtractedParams) (*wfmodel.DraftResult, error) {
	defer observeStage("draft", time.Now())

	binding, err := p.bindRole(p.llmCfg.Roles.Draft)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "running draft stage", "model", binding.model)
	res, err := p.draft.Invoke(ctx, &wfmodel.DraftInput{
		Topic:       params.Topic,
		Length:      params.Length,
		Provider:    binding.provider,
		Model:       binding.model,
		Temperature: binding.temperature,
		MaxTokens:   binding.maxTokens,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeGenerationFailed, "draft generation failed")
	}
	if res == nil || res.Message == nil || res.Thread == nil {
		return nil, apperrors.New(apperrors.CodeGenerationFailed, "empty draft response")
	}
	return res, nil
}

// stageSEO 做 SEO 优化并完成解析与必填校验。
// 返回的 payload 是校验后结果的规范 JSON，作为装配阶段的用户消息原文。
func (p *Pipeline) stageSEO(ctx context.Context, article string) (*blogmodel.SEOResult, string, error) {
	defer observeStage("seo_optimize", time.Now())

	binding, err := p.bindRole(p.llmCfg.Roles.SEO)
	if err != nil {
		return nil, "", err
	}

	logger.Info(ctx, "running seo stage", "model", binding.model, "article_chars", len(article))
	outMsg, err := p.seo.Invoke(ctx, &wfmodel.SEOOptimizeInput{
		Article:     article,
		Provider:    binding.provider,
		Model:       binding.model,
		Temperature: binding.temperature,
		MaxTokens:   binding.maxTokens,
	})
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.CodeGenerationFailed, "seo optimization failed")
	}
	if outMsg == nil {
		return nil, "", apperrors.New(apperrors.CodeGenerationFailed, "empty seo response")
	}

	res, jsonText, parseErr := ParseSEOResult(outMsg.Content)
	if parseErr == nil {
		parseErr = ValidateSEOResult(res, jsonText)
	}
	if parseErr != nil {
		metrics.ValidationTotal.WithLabelValues("seo_result", "failed").Inc()
		return nil, "", apperrors.New(apperrors.CodeValidationFailed,
			fmt.Sprintf("seo result parsing error: %v\nRaw: %s", parseErr, outMsg.Content))
	}
	metrics.ValidationTotal.WithLabelValues("seo_result", "ok").Inc()

	payload, err := json.Marshal(res)
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.CodeInternalError, "encode seo result")
	}
	return res, string(payload), nil
}

// stageAssembly 把结构化 SEO 结果回灌给初稿会话，产出终稿。
// 该阶段复用初稿角色：同一个模型在同一会话里收尾。
func (p *Pipeline) stageAssembly(ctx context.Context, params blogmodel.ExtractedParams, seoPayload string, thread *wfmodel.ConversationThread) (string, error) {
	defer observeStage("final_assembly", time.Now())

	binding, err := p.bindRole(p.llmCfg.Roles.Draft)
	if err != nil {
		return "", err
	}

	logger.Info(ctx, "running final assembly stage",
		"model", binding.model, "thread_messages", thread.Len())
	outMsg, err := p.assembly.Invoke(ctx, &wfmodel.AssemblyInput{
		Topic:       params.Topic,
		Length:      params.Length,
		SEOPayload:  seoPayload,
		Thread:      thread,
		Provider:    binding.provider,
		Model:       binding.model,
		Temperature: binding.temperature,
		MaxTokens:   binding.maxTokens,
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeGenerationFailed, "final assembly failed")
	}
	if outMsg == nil {
		return "", apperrors.New(apperrors.CodeGenerationFailed, "empty final assembly response")
	}
	return outMsg.Content, nil
}

type roleBinding struct {
	provider    string
	model       string
	temperature *float32
	maxTokens   *int
}

// bindRole 将角色配置落到具体提供商，决定模型名、温度与 token 上限。
// 标记了 temperature_unsupported 的提供商一律不下发温度。
func (p *Pipeline) bindRole(role config.RoleConfig) (roleBinding, error) {
	name, providerCfg, ok := p.llmCfg.RoleProvider(role)
	if !ok {
		return roleBinding{}, apperrors.New(apperrors.CodeLLMProviderError,
			fmt.Sprintf("llm provider %q not configured", name))
	}

	b := roleBinding{provider: name, model: strings.TrimSpace(role.Model)}
	if b.model == "" {
		b.model = providerCfg.Model
	}
	if !providerCfg.TemperatureUnsupported && role.Temperature > 0 {
		t := float32(role.Temperature)
		b.temperature = &t
	}
	if role.MaxTokens > 0 {
		mt := role.MaxTokens
		b.maxTokens = &mt
	}
	return b, nil
}

func observeStage(stage string, start time.Time) {
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// previewText 日志场景下按字符截断，避免长文刷屏。
func previewText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
