package generator

import "context"

// CompletionRequest 一次补全调用的提示词和采样参数。
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int64
}

// LLMClient 抽象大模型客户端，便于替换/Mock。
// 实现只发一次请求，不做重试。
type LLMClient interface {
	Complete(ctx context.Context, api APIConfig, req CompletionRequest) (string, error)
}
