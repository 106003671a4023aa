package generator

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the provider answered 2xx without usable text.
var ErrEmptyCompletion = errors.New("AI 未返回有效内容")

// ValidationError 调用方输入缺失或非法，原样展示给用户。
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// ProviderError means the completion endpoint returned a non-success status.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string { return e.Message }

// UnparsableOutputError 模型输出中找不到可解析的 JSON。
type UnparsableOutputError struct {
	Text string
}

func (e *UnparsableOutputError) Error() string { return "无法解析AI返回的数据，请重试" }

// ShapeError means JSON was recovered but the operation's required fields are missing.
type ShapeError struct {
	Op  string
	Msg string
}

func (e *ShapeError) Error() string { return e.Msg }

func genericProviderMessage(status int) string {
	return fmt.Sprintf("API 请求失败 (%d)", status)
}
