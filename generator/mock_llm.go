package generator

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// 按提示词类型返回固定样例，样例故意带上说明文字和代码块，走一遍 JSON 提取。
type MockLLM struct {
	Delay time.Duration
}

func (m MockLLM) Complete(ctx context.Context, _ APIConfig, req CompletionRequest) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	p := req.Prompt
	switch {
	case strings.Contains(p, "参数整理助手"):
		return "好的，以下是整理结果：\n```json\n" +
			`{"屏幕尺寸": "65英寸", "分辨率": "3840×2160", "刷新率": "144Hz", "运行内存": "4GB", "音响功率": "2×15W"}` +
			"\n```", nil
	case strings.Contains(p, "参数校核编辑"):
		return `{"has_error": false, "error_list": [], "corrected_title": "示例标题", "corrected_content": "示例正文"}`, nil
	case strings.Contains(p, `"inspirations"`):
		return `{"inspirations": ["从周末家庭影院切入，突出大屏沉浸感", "用看球不拖影讲高刷新率", "深夜追剧场景，讲暗场细节和护眼"]}`, nil
	case strings.Contains(p, `"polished_titles"`):
		return "润色完成：" + `{"polished_titles": ["周末宅家神器｜65寸大屏太香了", "看球党闭眼入的高刷电视"], "polished_content": "谁懂啊！换了这台电视之后周末根本不想出门……"}`, nil
	default:
		return `{"corrected_title": "示例标题", "corrected_content": "示例正文"}`, nil
	}
}

// StubLLM replies with a fixed answer and records every request it receives.
type StubLLM struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls []CompletionRequest
	apis  []APIConfig
}

func (s *StubLLM) Complete(_ context.Context, api APIConfig, req CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	s.apis = append(s.apis, api)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Reply, nil
}

// Calls returns the requests seen so far.
func (s *StubLLM) Calls() []CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CompletionRequest(nil), s.calls...)
}

// LastAPI returns the config passed with the most recent call.
func (s *StubLLM) LastAPI() APIConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.apis) == 0 {
		return APIConfig{}
	}
	return s.apis[len(s.apis)-1]
}
