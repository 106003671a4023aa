package publisher

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"redbook_copy_assistant/generator"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// Markdown 把润色结果排成 markdown：候选标题编号列出，正文原样保留换行。
func Markdown(res generator.PolishedResult) string {
	var b strings.Builder
	b.WriteString("## 候选标题\n\n")
	for i, t := range res.PolishedTitles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, escapeInline(t))
	}
	b.WriteString("\n## 正文\n\n")
	b.WriteString(strings.TrimSpace(res.PolishedContent))
	b.WriteString("\n")
	return b.String()
}

// VerificationMarkdown renders the corrected copy followed by a table of fixes.
func VerificationMarkdown(res generator.VerificationResult) string {
	var b strings.Builder
	if strings.TrimSpace(res.CorrectedTitle) != "" {
		fmt.Fprintf(&b, "# %s\n\n", escapeInline(res.CorrectedTitle))
	}
	b.WriteString(strings.TrimSpace(res.CorrectedContent))
	b.WriteString("\n")

	if !res.HasError || len(res.ErrorList) == 0 {
		b.WriteString("\n> 未发现与参数不符的内容\n")
		return b.String()
	}
	b.WriteString("\n## 修正记录\n\n")
	b.WriteString("| 位置 | 参数 | 原值 | 正确值 |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, e := range res.ErrorList {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(e.Position), cell(e.Param), cell(e.WrongValue), cell(e.CorrectValue))
	}
	return b.String()
}

// RenderHTML converts markdown into a standalone HTML page.
func RenderHTML(title, src string) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(src), &body); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"zh-CN\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// WriteFile 按扩展名导出：.html/.htm 输出网页，其余输出 markdown。
func WriteFile(path, title, src string) error {
	out := src
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		page, err := RenderHTML(title, src)
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		out = page
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

func escapeInline(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
}

func cell(s string) string {
	s = escapeInline(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	if s == "" {
		return "-"
	}
	return s
}
