// internal/services/render.go
package services

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
)

// 生成的脚本使用 GFM 表格和列表，原始 HTML 不输出
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderMarkdown 将脚本 Markdown 渲染为 HTML
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", apperrors.NewProcessingError("渲染脚本失败", err)
	}
	return buf.String(), nil
}
