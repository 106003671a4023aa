package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// MaxParamTextLength caps the raw parameter text accepted by Parse, in characters.
const MaxParamTextLength = 20000

// Operation names, used for logs and metrics.
const (
	OpParse   = "parse"
	OpVerify  = "verify"
	OpInspire = "inspire"
	OpPolish  = "polish"
)

type tuning struct {
	temperature float64
	maxTokens   int64
}

var tunings = map[string]tuning{
	OpParse:   {temperature: 0.1, maxTokens: 1000},
	OpVerify:  {temperature: 0.1, maxTokens: 2000},
	OpInspire: {temperature: 0.8, maxTokens: 1500},
	OpPolish:  {temperature: 0.8, maxTokens: 3000},
}

// Agent 负责四个操作：参数解析、校核、灵感、润色。
// 无状态，可并发调用。
type Agent struct {
	llm    LLMClient
	logger zerolog.Logger
}

func NewAgent(llm LLMClient, logger zerolog.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm, logger: logger}, nil
}

// Parse 从自由文本中提取参数表。
func (a *Agent) Parse(ctx context.Context, api APIConfig, text string) (ParameterSet, error) {
	if err := validateAPI(api); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, invalid("请输入参数文本")
	}
	if n := utf8.RuneCountInString(text); n > MaxParamTextLength {
		return nil, invalid(fmt.Sprintf("参数文本过长：%d 字（上限 %d）", n, MaxParamTextLength))
	}

	prompt, err := BuildPrompt(TemplateParse, map[string]string{SlotText: text})
	if err != nil {
		return nil, err
	}
	doc, err := a.run(ctx, OpParse, api, prompt)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(doc)
	if !res.IsObject() {
		return nil, a.shapeError(OpParse, doc, "AI 返回的参数格式不正确")
	}
	params := ParameterSet{}
	res.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Null {
			return true
		}
		params[key.String()] = strings.TrimSpace(value.String())
		return true
	})
	params = params.Clean()
	if len(params) == 0 {
		return nil, a.shapeError(OpParse, doc, "未从文本中识别到任何参数，请检查输入内容")
	}
	return params, nil
}

// Verify 对照参数检查文案。没有参数时退化为普通润色，结果里 error_list 为空。
func (a *Agent) Verify(ctx context.Context, api APIConfig, in VerifyInput) (VerificationResult, error) {
	if err := validateAPI(api); err != nil {
		return VerificationResult{}, err
	}
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Content) == "" {
		return VerificationResult{}, invalid("请输入标题或正文")
	}

	params := in.Params.Clean()
	kind := TemplateVerify
	if len(params) == 0 {
		kind = TemplateSimplePolish
		a.logger.Info().Str("op", OpVerify).Msg("verify degraded to plain polish (no parameters)")
	}
	prompt, err := BuildPrompt(kind, copySlots(params, in.Copy))
	if err != nil {
		return VerificationResult{}, err
	}
	doc, err := a.run(ctx, OpVerify, api, prompt)
	if err != nil {
		return VerificationResult{}, err
	}

	res := gjson.ParseBytes(doc)
	if !res.IsObject() {
		return VerificationResult{}, a.shapeError(OpVerify, doc, "AI 未能生成有效校核结果")
	}
	out := VerificationResult{
		HasError:         res.Get("has_error").Bool(),
		ErrorList:        []ErrorRecord{},
		CorrectedTitle:   firstNonBlank(res.Get("corrected_title").String(), res.Get("polished_titles.0").String()),
		CorrectedContent: firstNonBlank(res.Get("corrected_content").String(), res.Get("polished_content").String()),
	}
	res.Get("error_list").ForEach(func(_, e gjson.Result) bool {
		if e.IsObject() {
			out.ErrorList = append(out.ErrorList, ErrorRecord{
				Position:     e.Get("position").String(),
				Param:        e.Get("param").String(),
				WrongValue:   e.Get("wrong_value").String(),
				CorrectValue: e.Get("correct_value").String(),
			})
		}
		return true
	})
	if len(out.ErrorList) > 0 {
		out.HasError = true
	}
	if !out.HasError {
		out.ErrorList = []ErrorRecord{}
	}
	if strings.TrimSpace(out.CorrectedTitle) == "" && strings.TrimSpace(out.CorrectedContent) == "" {
		return VerificationResult{}, a.shapeError(OpVerify, doc, "AI 未能生成有效校核结果")
	}
	return out, nil
}

// Inspire 生成若干条创作灵感，顺序即模型返回顺序。
func (a *Agent) Inspire(ctx context.Context, api APIConfig, in InspireInput) ([]string, error) {
	if err := validateAPI(api); err != nil {
		return nil, err
	}
	dir, err := resolveDirection(in.Direction)
	if err != nil {
		return nil, err
	}

	params := in.Params.Clean()
	kind := TemplateInspire
	if len(params) == 0 {
		kind = TemplateSimpleInspire
	}
	slots := copySlots(params, in.Copy)
	slots[SlotDirectionLabel] = dir.Label
	slots[SlotDirectionDesc] = dir.Description

	prompt, err := BuildPrompt(kind, slots)
	if err != nil {
		return nil, err
	}
	doc, err := a.run(ctx, OpInspire, api, prompt)
	if err != nil {
		return nil, err
	}

	var inspirations []string
	gjson.GetBytes(doc, "inspirations").ForEach(func(_, v gjson.Result) bool {
		if s := strings.TrimSpace(v.String()); s != "" && v.Type == gjson.String {
			inspirations = append(inspirations, s)
		}
		return true
	})
	if len(inspirations) == 0 {
		return nil, a.shapeError(OpInspire, doc, "AI 未能生成有效灵感")
	}
	return inspirations, nil
}

// Polish 按方向和选定灵感重写文案。
func (a *Agent) Polish(ctx context.Context, api APIConfig, in PolishInput) (PolishedResult, error) {
	if err := validateAPI(api); err != nil {
		return PolishedResult{}, err
	}
	if strings.TrimSpace(in.Direction) == "" {
		return PolishedResult{}, invalid("请选择润色方向")
	}
	if strings.TrimSpace(in.Inspiration) == "" {
		return PolishedResult{}, invalid("请选择一条灵感")
	}
	dir, err := resolveDirection(in.Direction)
	if err != nil {
		return PolishedResult{}, err
	}
	structure, _ := RenderStructure(dir.Key)

	params := in.Params.Clean()
	kind := TemplatePolish
	if len(params) == 0 {
		kind = TemplateSimplePolish
	}
	slots := copySlots(params, in.Copy)
	slots[SlotDirectionLabel] = dir.Label
	slots[SlotDirectionDesc] = dir.Description
	slots[SlotInspiration] = in.Inspiration
	slots[SlotStructure] = structure

	prompt, err := BuildPrompt(kind, slots)
	if err != nil {
		return PolishedResult{}, err
	}
	doc, err := a.run(ctx, OpPolish, api, prompt)
	if err != nil {
		return PolishedResult{}, err
	}

	out, ok := decodePolished(gjson.ParseBytes(doc))
	if !ok {
		return PolishedResult{}, a.shapeError(OpPolish, doc, "AI 未能生成有效润色文案")
	}
	return out, nil
}

func (a *Agent) run(ctx context.Context, op string, api APIConfig, prompt string) (json.RawMessage, error) {
	t := tunings[op]
	raw, err := a.llm.Complete(ctx, api, CompletionRequest{
		Prompt:      prompt,
		Temperature: t.temperature,
		MaxTokens:   t.maxTokens,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("op", op).Str("output", raw).Msg("AI 返回内容")

	doc, err := ExtractJSON(raw)
	if err != nil {
		a.logger.Warn().Str("op", op).Int("output_len", len(raw)).Msg("model output has no JSON")
		return nil, err
	}
	return doc, nil
}

func (a *Agent) shapeError(op string, doc json.RawMessage, msg string) error {
	a.logger.Warn().Str("op", op).RawJSON("result", doc).Msg("解析结果缺少必要字段")
	return &ShapeError{Op: op, Msg: msg}
}

// polishShapes are tried in order; the first that yields titles and content wins.
var polishShapes = []func(gjson.Result) PolishedResult{
	func(r gjson.Result) PolishedResult {
		var titles []string
		r.Get("polished_titles").ForEach(func(_, v gjson.Result) bool {
			if s := strings.TrimSpace(v.String()); s != "" && v.Type == gjson.String {
				titles = append(titles, s)
			}
			return true
		})
		return PolishedResult{PolishedTitles: titles, PolishedContent: r.Get("polished_content").String()}
	},
	func(r gjson.Result) PolishedResult {
		var titles []string
		if s := strings.TrimSpace(r.Get("corrected_title").String()); s != "" {
			titles = []string{s}
		}
		return PolishedResult{PolishedTitles: titles, PolishedContent: r.Get("corrected_content").String()}
	},
}

func decodePolished(r gjson.Result) (PolishedResult, bool) {
	if !r.IsObject() {
		return PolishedResult{}, false
	}
	for _, shape := range polishShapes {
		out := shape(r)
		if len(out.PolishedTitles) > 0 && strings.TrimSpace(out.PolishedContent) != "" {
			return out, true
		}
	}
	return PolishedResult{}, false
}

func validateAPI(api APIConfig) error {
	switch {
	case strings.TrimSpace(api.APIKey) == "":
		return invalid("请先配置 API Key")
	case strings.TrimSpace(api.Endpoint) == "":
		return invalid("请先配置 API 地址")
	case strings.TrimSpace(api.Model) == "":
		return invalid("请先配置模型名称")
	}
	return nil
}

func resolveDirection(key string) (Direction, error) {
	if strings.TrimSpace(key) == "" {
		return Direction{}, invalid("请选择润色方向")
	}
	dir, ok := LookupDirection(key)
	if !ok {
		return Direction{}, invalid("无效的润色方向")
	}
	return dir, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
