package chain

import (
	"context"
	"fmt"
	"strconv"
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

// FinalAssemblyChain 终稿装配链：在草稿会话上追加序列化的 SEO 结果，产出最终正文。
// 系统提示沿用草稿模板（topic/length 重新绑定），历史消息来自 DraftResult.Thread。
type FinalAssemblyChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.AssemblyInput, *schema.Message]
	chainErr  error
}

func NewFinalAssemblyChain(factory workflowport.ChatModelFactory) *FinalAssemblyChain {
	return &FinalAssemblyChain{factory: factory}
}

func (c *FinalAssemblyChain) Invoke(ctx context.Context, in *wfmodel.AssemblyInput) (*schema.Message, error) {
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

type assemblyChainState struct {
	In       *wfmodel.AssemblyInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *FinalAssemblyChain) getChain() (compose.Runnable[*wfmodel.AssemblyInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *FinalAssemblyChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.AssemblyInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.AssemblyInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.AssemblyInput) (*assemblyChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			if in.Thread.Len() == 0 {
				return nil, fmt.Errorf("draft thread is empty")
			}
			if strings.TrimSpace(in.SEOPayload) == "" {
				return nil, fmt.Errorf("seo payload is empty")
			}
			return &assemblyChainState{In: in}, nil
		}),
		compose.WithNodeName("assembly.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *assemblyChainState) (*assemblyChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := formatAssemblyMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("assembly.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *assemblyChainState) (*assemblyChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if c.factory == nil {
				return nil, fmt.Errorf("llm factory not configured")
			}

			ctx = llmctx.WithWorkflowProvider(ctx, "blog_final_assembly", strings.TrimSpace(st.In.Provider))
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildAssemblyModelOptions(st.In)...)
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("assembly.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *assemblyChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("assembly.finalize"),
	)

	return chain.Compile(ctx)
}

// formatAssemblyMessages 组装消息序列：重渲染的系统提示 + 草稿会话历史 + SEO 结果。
func formatAssemblyMessages(ctx context.Context, in *wfmodel.AssemblyInput) ([]*schema.Message, error) {
	tpl, err := defaultPromptRegistry.SystemTemplate(workflowprompt.PromptBlogDraftV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"topic":  strings.TrimSpace(in.Topic),
		"length": strconv.Itoa(in.Length),
	}
	system, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, err
	}

	history := in.Thread.History()
	msgs := make([]*schema.Message, 0, len(system)+len(history)+1)
	msgs = append(msgs, system...)
	msgs = append(msgs, history...)
	msgs = append(msgs, schema.UserMessage(in.SEOPayload))
	return msgs, nil
}

func buildAssemblyModelOptions(in *wfmodel.AssemblyInput) []model.Option {
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
