package model

import "github.com/cloudwego/eino/schema"

// ConversationThread 封装一次草稿会话的消息序列（用户触发语 + 模型草稿回复）。
// 句柄按值传递：仅草稿与终稿装配两个阶段共享同一会话，其余阶段互不可见。
// 系统提示不入会话，由各次调用按模板重新渲染。
type ConversationThread struct {
	messages []*schema.Message
}

func NewConversationThread(msgs ...*schema.Message) *ConversationThread {
	t := &ConversationThread{messages: make([]*schema.Message, 0, len(msgs))}
	for _, m := range msgs {
		if m != nil {
			t.messages = append(t.messages, m)
		}
	}
	return t
}

// History 返回会话消息的副本，调用方不可据此修改内部状态。
func (t *ConversationThread) History() []*schema.Message {
	if t == nil || len(t.messages) == 0 {
		return nil
	}
	out := make([]*schema.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len 返回会话内消息条数。
func (t *ConversationThread) Len() int {
	if t == nil {
		return 0
	}
	return len(t.messages)
}
