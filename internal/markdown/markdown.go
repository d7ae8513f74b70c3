// Package markdown flattens model answers, which are usually markdown, into
// plain text for terminal tables.
package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ToPlainText drops markdown syntax and keeps the readable text. Each block
// ends with a newline.
func ToPlainText(md []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(md))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument && sb.Len() > 0 {
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(md))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteString(" ")
			}
		case *ast.String:
			sb.Write(v.Value)
		case *ast.AutoLink:
			sb.Write(v.Label(md))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(md))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return sb.String()
}

// Snippet returns the plain text of md on a single line, cut to at most limit
// runes with a trailing ellipsis. limit <= 0 disables the cut.
func Snippet(md string, limit int) string {
	flat := strings.Join(strings.Fields(ToPlainText([]byte(md))), " ")
	if limit <= 0 || utf8.RuneCountInString(flat) <= limit {
		return flat
	}
	if limit == 1 {
		return "…"
	}
	runes := []rune(flat)
	return strings.TrimRight(string(runes[:limit-1]), " ") + "…"
}
