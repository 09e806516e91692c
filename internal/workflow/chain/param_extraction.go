package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "blogsmith-ai-api/internal/domain/service"
	wfmodel "blogsmith-ai-api/internal/workflow/model"
	workflowport "blogsmith-ai-api/internal/workflow/port"
	workflowprompt "blogsmith-ai-api/internal/workflow/prompt"
)

// ParamExtractionChain 参数提取链：从自由文本中提取 topic/length 的紧凑 JSON。
// 输出不做 schema 约束，解析与回退由应用层负责。
type ParamExtractionChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.ExtractionInput, *schema.Message]
	chainErr  error
}

func NewParamExtractionChain(factory workflowport.ChatModelFactory) *ParamExtractionChain {
	return &ParamExtractionChain{factory: factory}
}

func (c *ParamExtractionChain) Invoke(ctx context.Context, in *wfmodel.ExtractionInput) (*schema.Message, error) {
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

type extractionChainState struct {
	In       *wfmodel.ExtractionInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *ParamExtractionChain) getChain() (compose.Runnable[*wfmodel.ExtractionInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *ParamExtractionChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.ExtractionInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.ExtractionInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.ExtractionInput) (*extractionChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			if strings.TrimSpace(in.Prompt) == "" {
				return nil, fmt.Errorf("prompt is empty")
			}
			return &extractionChainState{In: in}, nil
		}),
		compose.WithNodeName("extraction.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *extractionChainState) (*extractionChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := formatExtractionMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("extraction.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *extractionChainState) (*extractionChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if c.factory == nil {
				return nil, fmt.Errorf("llm factory not configured")
			}

			ctx = llmctx.WithWorkflowProvider(ctx, "blog_param_extraction", strings.TrimSpace(st.In.Provider))
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildExtractionModelOptions(st.In)...)
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("extraction.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *extractionChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("extraction.finalize"),
	)

	return chain.Compile(ctx)
}

func formatExtractionMessages(ctx context.Context, in *wfmodel.ExtractionInput) ([]*schema.Message, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptBlogParamExtractionV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"prompt": strings.TrimSpace(in.Prompt),
	}
	return tpl.Format(ctx, vars)
}

func buildExtractionModelOptions(in *wfmodel.ExtractionInput) []model.Option {
	opts := make([]model.Option, 0, 3)
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

	return opts
}
