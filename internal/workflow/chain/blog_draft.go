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

// BlogDraftChain 草稿生成链：topic/length -> markdown 正文。
// 每次调用开启全新会话，返回的会话句柄仅供终稿装配阶段复用。
type BlogDraftChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.DraftInput, *wfmodel.DraftResult]
	chainErr  error
}

func NewBlogDraftChain(factory workflowport.ChatModelFactory) *BlogDraftChain {
	return &BlogDraftChain{factory: factory}
}

func (c *BlogDraftChain) Invoke(ctx context.Context, in *wfmodel.DraftInput) (*wfmodel.DraftResult, error) {
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

type draftChainState struct {
	In       *wfmodel.DraftInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *BlogDraftChain) getChain() (compose.Runnable[*wfmodel.DraftInput, *wfmodel.DraftResult], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *BlogDraftChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.DraftInput, *wfmodel.DraftResult], error) {
	chain := compose.NewChain[*wfmodel.DraftInput, *wfmodel.DraftResult]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.DraftInput) (*draftChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			if strings.TrimSpace(in.Topic) == "" {
				return nil, fmt.Errorf("topic is empty")
			}
			if in.Length <= 0 {
				return nil, fmt.Errorf("length must be positive")
			}
			return &draftChainState{In: in}, nil
		}),
		compose.WithNodeName("draft.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *draftChainState) (*draftChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := formatDraftMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("draft.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *draftChainState) (*draftChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if c.factory == nil {
				return nil, fmt.Errorf("llm factory not configured")
			}

			ctx = llmctx.WithWorkflowProvider(ctx, "blog_draft", strings.TrimSpace(st.In.Provider))
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildDraftModelOptions(st.In)...)
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("draft.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *draftChainState) (*wfmodel.DraftResult, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			// 会话只保留交互消息：系统提示由后续调用重新渲染。
			exchange := make([]*schema.Message, 0, len(st.Messages))
			for _, m := range st.Messages {
				if m != nil && m.Role != schema.System {
					exchange = append(exchange, m)
				}
			}
			exchange = append(exchange, st.OutMsg)
			return &wfmodel.DraftResult{
				Message: st.OutMsg,
				Thread:  wfmodel.NewConversationThread(exchange...),
			}, nil
		}),
		compose.WithNodeName("draft.finalize"),
	)

	return chain.Compile(ctx)
}

var defaultPromptRegistry = workflowprompt.NewRegistry()

func formatDraftMessages(ctx context.Context, in *wfmodel.DraftInput) ([]*schema.Message, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptBlogDraftV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"topic":  strings.TrimSpace(in.Topic),
		"length": strconv.Itoa(in.Length),
	}
	return tpl.Format(ctx, vars)
}

func buildDraftModelOptions(in *wfmodel.DraftInput) []model.Option {
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
