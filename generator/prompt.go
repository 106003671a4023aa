package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TemplateKind names one prompt template.
type TemplateKind string

const (
	TemplateParse         TemplateKind = "parse"
	TemplateVerify        TemplateKind = "verify"
	TemplateInspire       TemplateKind = "inspire"
	TemplateSimpleInspire TemplateKind = "inspire_simple"
	TemplatePolish        TemplateKind = "polish"
	TemplateSimplePolish  TemplateKind = "polish_simple"
)

// 槽位名，对应模板中的 {{NAME}}。
const (
	SlotText           = "TEXT"
	SlotParams         = "PARAMS"
	SlotTitle          = "TITLE"
	SlotContent        = "CONTENT"
	SlotDirectionLabel = "DIRECTION_LABEL"
	SlotDirectionDesc  = "DIRECTION_DESC"
	SlotInspiration    = "INSPIRATION"
	SlotStructure      = "STRUCTURE_TEMPLATE"
)

var templates = map[TemplateKind]string{
	TemplateParse:         parseTemplate,
	TemplateVerify:        verifyTemplate,
	TemplateInspire:       inspireTemplate,
	TemplateSimpleInspire: simpleInspireTemplate,
	TemplatePolish:        polishTemplate,
	TemplateSimplePolish:  simplePolishTemplate,
}

// slotFallbacks is substituted for any slot the caller left empty.
var slotFallbacks = map[string]string{
	SlotText:           "（无参数文本）",
	SlotParams:         "{}",
	SlotTitle:          "（无标题）",
	SlotContent:        "（无正文）",
	SlotDirectionLabel: "通用润色",
	SlotDirectionDesc:  "在不改变原意和事实的前提下，让表达更流畅、更有吸引力。",
	SlotInspiration:    "（未指定灵感，可自由发挥）",
	SlotStructure:      "（无固定结构要求，保持原文的大致结构即可）",
}

// BuildPrompt 把 slots 代入指定模板。
// 替换只做一遍：用户内容里出现的 {{TITLE}} 之类不会被再次展开。
func BuildPrompt(kind TemplateKind, slots map[string]string) (string, error) {
	tpl, ok := templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", kind)
	}

	pairs := make([]string, 0, len(slotFallbacks)*2)
	for name, fallback := range slotFallbacks {
		value := slots[name]
		if strings.TrimSpace(value) == "" {
			value = fallback
		}
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tpl), nil
}

// paramsJSON renders params as indented JSON with stable key order.
func paramsJSON(params ParameterSet) string {
	if len(params) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(params); err != nil {
		return "{}"
	}
	return strings.TrimSpace(buf.String())
}

func copySlots(params ParameterSet, c Copy) map[string]string {
	return map[string]string{
		SlotParams:  paramsJSON(params),
		SlotTitle:   c.Title,
		SlotContent: c.Content,
	}
}
