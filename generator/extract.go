package generator

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	braceSpanRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON 从模型输出中取出一个合法 JSON 值。
// 依次尝试：整体直接解析、```json 代码块、第一个 { 到最后一个 } 的片段。
func ExtractJSON(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)

	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	if m := fencedBlockRe.FindStringSubmatch(trimmed); len(m) == 2 {
		inner := strings.TrimSpace(m[1])
		if inner != "" && json.Valid([]byte(inner)) {
			return json.RawMessage(inner), nil
		}
	}

	if span := braceSpanRe.FindString(trimmed); span != "" && json.Valid([]byte(span)) {
		return json.RawMessage(span), nil
	}

	return nil, &UnparsableOutputError{Text: text}
}
