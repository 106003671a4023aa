package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"redbook_copy_assistant/config"
	"redbook_copy_assistant/generator"
)

const apiFields = `"apiKey": "sk-test", "endpoint": "https://llm.example.com/v1/chat/completions", "model": "deepseek-chat"`

func newTestServer(t *testing.T, llm generator.LLMClient, cfg config.Config) http.Handler {
	t.Helper()
	agent, err := generator.NewAgent(llm, zerolog.Nop())
	require.NoError(t, err)
	srv, err := New(agent, cfg, zerolog.Nop())
	require.NoError(t, err)
	return srv.Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	res := gjson.Parse(w.Body.String())
	require.True(t, res.Get("error").Exists(), "body: %s", w.Body.String())
	return res.Get("error").String()
}

func TestNewRequiresAgent(t *testing.T) {
	_, err := New(nil, config.Config{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestParseEndpoint(t *testing.T) {
	stub := &generator.StubLLM{Reply: `{"分辨率": "4K", "刷新率": 144, "保修期": "3年"}`}
	h := newTestServer(t, stub, config.Config{})

	for _, path := range []string{"/parse", "/api/parse"} {
		t.Run(path, func(t *testing.T) {
			w := do(t, h, http.MethodPost, path, `{"text": "分辨率: 4K\n刷新率: 144", `+apiFields+`}`)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

			var resp parseResp
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, generator.ParameterSet{"分辨率": "4K", "刷新率": "144", "保修期": "3年"}, resp.Params)
			require.Len(t, resp.Categories, 2)
			assert.Equal(t, generator.CategoryDisplay, resp.Categories[0].Category)
			assert.Equal(t, []string{"分辨率", "刷新率"}, resp.Categories[0].Names)
		})
	}

	assert.Equal(t, generator.APIConfig{
		APIKey:   "sk-test",
		Endpoint: "https://llm.example.com/v1/chat/completions",
		Model:    "deepseek-chat",
	}, stub.LastAPI(), "api config flows from the request body")
}

func TestVerifyEndpoint(t *testing.T) {
	stub := &generator.StubLLM{Reply: `{"has_error": true, "error_list": [{"position": "正文", "param": "刷新率", "wrong_value": "120Hz", "correct_value": "144Hz"}], "corrected_title": "T", "corrected_content": "刷新率144Hz"}`}
	h := newTestServer(t, stub, config.Config{})

	w := do(t, h, http.MethodPost, "/verify", `{"params": {"刷新率": "144Hz", "重量": 12.5}, "title": "T", "content": "刷新率120Hz", `+apiFields+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := gjson.Parse(w.Body.String())
	assert.True(t, body.Get("result.has_error").Bool())
	assert.Equal(t, "144Hz", body.Get("result.error_list.0.correct_value").String())
	assert.Equal(t, "刷新率144Hz", body.Get("result.corrected_content").String())

	calls := stub.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, `"重量": "12.5"`, "numeric params are accepted as text")
}

func TestVerifyWithoutParamsReturnsEmptyErrorList(t *testing.T) {
	stub := &generator.StubLLM{Reply: `{"corrected_title": "T2", "corrected_content": "C2"}`}
	h := newTestServer(t, stub, config.Config{})

	w := do(t, h, http.MethodPost, "/verify", `{"title": "T", "content": "C", `+apiFields+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"result": {"has_error": false, "error_list": [], "corrected_title": "T2", "corrected_content": "C2"}}`, w.Body.String())
}

func TestInspireEndpoint(t *testing.T) {
	stub := &generator.StubLLM{Reply: `{"inspirations": ["甲", "乙", "丙"]}`}
	h := newTestServer(t, stub, config.Config{})

	w := do(t, h, http.MethodPost, "/api/inspire", `{"direction": "seeding", "title": "T", `+apiFields+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"inspirations": ["甲", "乙", "丙"]}`, w.Body.String())
}

func TestPolishEndpoint(t *testing.T) {
	stub := &generator.StubLLM{Reply: `{"polished_titles": ["A", "B"], "polished_content": "正文"}`}
	h := newTestServer(t, stub, config.Config{})

	w := do(t, h, http.MethodPost, "/polish", `{"direction": "review", "inspiration": "看球", "params": {"刷新率": "144Hz"}, `+apiFields+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"result": {"polished_titles": ["A", "B"], "polished_content": "正文"}}`, w.Body.String())
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		llm     *generator.StubLLM
		path    string
		body    string
		status  int
		message string
	}{
		{
			name:    "missing api key",
			llm:     &generator.StubLLM{},
			path:    "/parse",
			body:    `{"text": "a: b", "endpoint": "https://x", "model": "m"}`,
			status:  http.StatusBadRequest,
			message: "请先配置 API Key",
		},
		{
			name:    "unknown direction",
			llm:     &generator.StubLLM{},
			path:    "/inspire",
			body:    `{"direction": "nope", ` + apiFields + `}`,
			status:  http.StatusBadRequest,
			message: "无效的润色方向",
		},
		{
			name:    "provider status is passed through",
			llm:     &generator.StubLLM{Err: &generator.ProviderError{StatusCode: 429, Message: "rate limited"}},
			path:    "/parse",
			body:    `{"text": "a: b", ` + apiFields + `}`,
			status:  http.StatusTooManyRequests,
			message: "rate limited",
		},
		{
			name:    "provider without valid status",
			llm:     &generator.StubLLM{Err: &generator.ProviderError{StatusCode: 200, Message: "odd"}},
			path:    "/parse",
			body:    `{"text": "a: b", ` + apiFields + `}`,
			status:  http.StatusInternalServerError,
			message: "odd",
		},
		{
			name:    "empty completion",
			llm:     &generator.StubLLM{Err: generator.ErrEmptyCompletion},
			path:    "/polish",
			body:    `{"direction": "promo", "inspiration": "x", "title": "t", ` + apiFields + `}`,
			status:  http.StatusInternalServerError,
			message: "AI 未返回有效内容",
		},
		{
			name:    "unparsable output",
			llm:     &generator.StubLLM{Reply: "抱歉，我无法完成"},
			path:    "/verify",
			body:    `{"title": "t", ` + apiFields + `}`,
			status:  http.StatusInternalServerError,
			message: "无法解析AI返回的数据，请重试",
		},
		{
			name:    "shape error",
			llm:     &generator.StubLLM{Reply: `{"inspirations": []}`},
			path:    "/inspire",
			body:    `{"direction": "scene", ` + apiFields + `}`,
			status:  http.StatusInternalServerError,
			message: "AI 未能生成有效灵感",
		},
		{
			name:    "transport failure",
			llm:     &generator.StubLLM{Err: fmt.Errorf("请求 AI 服务失败: %w", errors.New("dial tcp: refused"))},
			path:    "/parse",
			body:    `{"text": "a: b", ` + apiFields + `}`,
			status:  http.StatusInternalServerError,
			message: "请求 AI 服务失败: dial tcp: refused",
		},
		{
			name:    "invalid json",
			llm:     &generator.StubLLM{},
			path:    "/parse",
			body:    `{"text": `,
			status:  http.StatusBadRequest,
			message: "请求体不是有效的 JSON",
		},
		{
			name:    "params must be an object",
			llm:     &generator.StubLLM{},
			path:    "/verify",
			body:    `{"params": ["x"], "title": "t", ` + apiFields + `}`,
			status:  http.StatusBadRequest,
			message: "请求体不是有效的 JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, tt.llm, config.Config{})
			w := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, errorOf(t, w))
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	h := newTestServer(t, &generator.StubLLM{}, config.Config{MaxBodyBytes: 64})

	w := do(t, h, http.MethodPost, "/parse", `{"text": "`+strings.Repeat("参数", 100)+`", `+apiFields+`}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "请求体过大", errorOf(t, w))
}

func TestParseTextTooLong(t *testing.T) {
	stub := &generator.StubLLM{}
	h := newTestServer(t, stub, config.Config{MaxBodyBytes: 1 << 20})

	text := strings.Repeat("字", generator.MaxParamTextLength+1)
	w := do(t, h, http.MethodPost, "/parse", `{"text": "`+text+`", `+apiFields+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorOf(t, w), "参数文本过长")
	assert.Empty(t, stub.Calls())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, &generator.StubLLM{}, config.Config{})

	w := do(t, h, http.MethodGet, "/parse", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))

	w = do(t, h, http.MethodPost, "/directions", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t, &generator.StubLLM{}, config.Config{})
	w := do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "接口不存在", errorOf(t, w))
}

func TestDirectionsEndpoint(t *testing.T) {
	h := newTestServer(t, &generator.StubLLM{}, config.Config{})

	w := do(t, h, http.MethodGet, "/api/directions", "")
	require.Equal(t, http.StatusOK, w.Code)

	dirs := gjson.Get(w.Body.String(), "directions").Array()
	require.Len(t, dirs, len(generator.Directions()))
	for i, d := range generator.Directions() {
		assert.Equal(t, d.Key, dirs[i].Get("key").String())
		assert.Equal(t, d.Label, dirs[i].Get("label").String())
		assert.NotEmpty(t, dirs[i].Get("structure").Array(), d.Key)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, &generator.StubLLM{}, config.Config{})

	w := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "redbook_requests_total")
}

func multipartXLSX(t *testing.T, field string, rows [][]any) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "params.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestImportEndpoint(t *testing.T) {
	h := newTestServer(t, &generator.StubLLM{}, config.Config{})

	post := func(body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/import", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	t.Run("ok", func(t *testing.T) {
		body, ct := multipartXLSX(t, "file", [][]any{{"屏幕尺寸", "65英寸"}, {"刷新率", "144Hz"}})
		w := post(body, ct)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"text": "屏幕尺寸: 65英寸\n刷新率: 144Hz"}`, w.Body.String())
	})

	t.Run("no rows", func(t *testing.T) {
		body, ct := multipartXLSX(t, "file", [][]any{{"只有一列"}})
		w := post(body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Excel 中未找到有效数据（需要两列：参数名 | 参数值）", errorOf(t, w))
	})

	t.Run("wrong field", func(t *testing.T) {
		body, ct := multipartXLSX(t, "upload", [][]any{{"a", "b"}})
		w := post(body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "请上传 Excel 文件", errorOf(t, w))
	})

	t.Run("not a workbook", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "params.xlsx")
		require.NoError(t, err)
		_, _ = part.Write([]byte("plain text"))
		require.NoError(t, mw.Close())

		w := post(&body, mw.FormDataContentType())
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Excel 解析失败，请检查文件格式", errorOf(t, w))
	})
}

func TestMockLLMEndToEnd(t *testing.T) {
	h := newTestServer(t, generator.MockLLM{}, config.Config{})

	w := do(t, h, http.MethodPost, "/parse", `{"text": "屏幕尺寸: 65英寸", `+apiFields+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "65英寸", gjson.Get(w.Body.String(), "params.屏幕尺寸").String())

	w = do(t, h, http.MethodPost, "/inspire", `{"direction": "seeding", "params": {"屏幕尺寸": "65英寸"}, `+apiFields+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := gjson.Get(w.Body.String(), "inspirations.0").String()
	require.NotEmpty(t, first)

	w = do(t, h, http.MethodPost, "/polish", `{"direction": "seeding", "inspiration": `+jsonQuote(first)+`, "params": {"屏幕尺寸": "65英寸"}, `+apiFields+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, gjson.Get(w.Body.String(), "result.polished_titles").Array())
}

func TestRequestContextCancelled(t *testing.T) {
	h := newTestServer(t, generator.MockLLM{Delay: time.Minute}, config.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"text": "a: b", `+apiFields+`}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func jsonQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
