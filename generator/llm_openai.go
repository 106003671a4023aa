package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"
)

// OpenAILLM implements LLMClient against any OpenAI-compatible chat completion endpoint.
// Endpoint, key and model come from each call.
type OpenAILLM struct {
	HTTPClient *http.Client
}

// NewOpenAILLM returns a client whose transport gives up after timeout.
func NewOpenAILLM(timeout time.Duration) *OpenAILLM {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAILLM{HTTPClient: &http.Client{Timeout: timeout}}
}

// failedResponse keeps the status and body of a non-2xx provider answer.
type failedResponse struct {
	status int
	body   []byte
}

func (o *OpenAILLM) Complete(ctx context.Context, api APIConfig, req CompletionRequest) (string, error) {
	target, err := url.Parse(strings.TrimSpace(api.Endpoint))
	if err != nil || target.Scheme == "" || target.Host == "" {
		return "", invalid("API 地址无效")
	}

	httpClient := o.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var failed *failedResponse
	client := openai.NewClient(
		option.WithAPIKey(api.APIKey),
		option.WithBaseURL(target.Scheme+"://"+target.Host+"/"),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithMiddleware(pinEndpoint(target), captureFailure(&failed)),
	)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(api.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(req.MaxTokens),
	})
	if err != nil {
		if failed != nil {
			return "", providerError(failed.status, failed.body)
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", providerError(apiErr.StatusCode, []byte(`{"error":`+apiErr.RawJSON()+`}`))
		}
		return "", fmt.Errorf("请求 AI 服务失败: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// providerError 优先取服务商返回的 error.message，取不到时用通用文案。
func providerError(status int, body []byte) error {
	msg := genericProviderMessage(status)
	if gjson.ValidBytes(body) {
		for _, path := range []string{"error.message", "message", "error"} {
			if v := gjson.GetBytes(body, path); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
				msg = v.Str
				break
			}
		}
	}
	return &ProviderError{StatusCode: status, Message: msg}
}

// pinEndpoint sends the request to the exact URL the caller configured
// instead of base URL + "chat/completions".
func pinEndpoint(target *url.URL) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		u := *target
		req.URL = &u
		req.Host = u.Host
		return next(req)
	}
}

func captureFailure(dst **failedResponse) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		res, err := next(req)
		if err != nil || res == nil || res.StatusCode < 400 {
			return res, err
		}
		body, readErr := io.ReadAll(res.Body)
		res.Body.Close()
		if readErr != nil {
			return nil, readErr
		}
		res.Body = io.NopCloser(bytes.NewReader(body))
		*dst = &failedResponse{status: res.StatusCode, body: body}
		return res, nil
	}
}
