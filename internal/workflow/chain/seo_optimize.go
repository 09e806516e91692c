package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "blogsmith-ai-api/internal/domain/service"
	wfmodel "blogsmith-ai-api/internal/workflow/model"
	wfnode "blogsmith-ai-api/internal/workflow/node"
	workflowport "blogsmith-ai-api/internal/workflow/port"
	workflowprompt "blogsmith-ai-api/internal/workflow/prompt"
	"blogsmith-ai-api/pkg/logger"
)

// SEOOptimizeChain SEO 优化链：草稿 -> 结构化优化结果（JSON）。
// 通过 response_format 的 json_schema 约束输出；提供商不支持时退化为仅提示词约束。
type SEOOptimizeChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.SEOOptimizeInput, *schema.Message]
	chainErr  error
}

func NewSEOOptimizeChain(factory workflowport.ChatModelFactory) *SEOOptimizeChain {
	return &SEOOptimizeChain{factory: factory}
}

func (c *SEOOptimizeChain) Invoke(ctx context.Context, in *wfmodel.SEOOptimizeInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type seoChainState struct {
	In       *wfmodel.SEOOptimizeInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *SEOOptimizeChain) getChain() (compose.Runnable[*wfmodel.SEOOptimizeInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *SEOOptimizeChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.SEOOptimizeInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.SEOOptimizeInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.SEOOptimizeInput) (*seoChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			if strings.TrimSpace(in.Article) == "" {
				return nil, fmt.Errorf("article is empty")
			}
			return &seoChainState{In: in}, nil
		}),
		compose.WithNodeName("seo.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *seoChainState) (*seoChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := formatSEOMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("seo.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *seoChainState) (*seoChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if c.factory == nil {
				return nil, fmt.Errorf("llm factory not configured")
			}

			ctx = llmctx.WithWorkflowProvider(ctx, "blog_seo_optimize", strings.TrimSpace(st.In.Provider))
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildSEOModelOptions(st.In, true)...)
			if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
					"provider", strings.TrimSpace(st.In.Provider),
					"model", strings.TrimSpace(st.In.Model),
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildSEOModelOptions(st.In, false)...)
			}
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("seo.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *seoChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("seo.finalize"),
	)

	return chain.Compile(ctx)
}

func formatSEOMessages(ctx context.Context, in *wfmodel.SEOOptimizeInput) ([]*schema.Message, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptBlogSEOOptimizeV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"article": strings.TrimSpace(in.Article),
	}
	return tpl.Format(ctx, vars)
}

func buildSEOModelOptions(in *wfmodel.SEOOptimizeInput, enableSchema bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if in == nil {
		return opts
	}

	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}

	if enableSchema {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   "seo_agent_output",
					"strict": false,
					"schema": seoJSONSchema(),
				},
			},
		}))
	}

	return opts
}

func seoJSONSchema() map[string]any {
	// 说明：必填字段与校验层保持一致；readability_score/call_to_action 为可选。
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required": []any{
			"title", "meta_description", "slug", "h1", "h2s",
			"revised_article", "improvements", "seo_keywords",
			"internal_links", "external_links",
		},
		"properties": map[string]any{
			"title":            map[string]any{"type": "string"},
			"meta_description": map[string]any{"type": "string"},
			"slug":             map[string]any{"type": "string"},
			"h1":               map[string]any{"type": "string"},
			"h2s": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"revised_article": map[string]any{"type": "string"},
			"improvements": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"seo_keywords": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"internal_links": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"external_links": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"readability_score": map[string]any{"type": "number"},
			"call_to_action":    map[string]any{"type": "string"},
		},
	}
}
