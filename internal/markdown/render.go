package markdown

import (
	"fmt"
	"strings"

	"news-reporter/internal/document"
)

// Render writes the document blocks as Markdown, one block per paragraph.
func Render(blocks []document.Block) (string, error) {
	var b strings.Builder
	for i, blk := range blocks {
		switch v := blk.(type) {
		case document.Heading:
			b.WriteString(strings.Repeat("#", v.Level) + " " + v.Text)
		case document.Paragraph:
			for _, r := range v.Runs {
				b.WriteString(renderRun(r))
			}
		case document.Image:
			b.WriteString("![](" + v.URL + ")")
		case document.Divider:
			b.WriteString("---")
		default:
			return "", fmt.Errorf("block %d: unsupported block type %T", i, blk)
		}
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func renderRun(r document.Run) string {
	if strings.TrimSpace(r.Text) == "" {
		return r.Text
	}
	// emphasis markers must hug the text, so surrounding spaces stay outside
	lead := r.Text[:len(r.Text)-len(strings.TrimLeft(r.Text, " "))]
	trail := r.Text[len(strings.TrimRight(r.Text, " ")):]
	s := strings.TrimSpace(r.Text)
	if r.Link != "" {
		s = "[" + s + "](" + r.Link + ")"
	}
	if r.Italic {
		s = "_" + s + "_"
	}
	if r.Bold {
		s = "**" + s + "**"
	}
	if r.Underline {
		s = "<u>" + s + "</u>"
	}
	return lead + s + trail
}
