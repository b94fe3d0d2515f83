package notion

import (
	"fmt"

	"news-reporter/internal/document"
)

// maxTextLen is the per rich-text object content limit.
const maxTextLen = 2000

// RenderBlocks maps document blocks one-to-one onto Notion blocks, in order.
func RenderBlocks(blocks []document.Block) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(blocks))
	for i, b := range blocks {
		nb, err := renderBlock(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, nb)
	}
	return out, nil
}

func renderBlock(b document.Block) (map[string]any, error) {
	switch v := b.(type) {
	case document.Heading:
		typ := fmt.Sprintf("heading_%d", v.Level)
		return map[string]any{
			"object": "block",
			"type":   typ,
			typ:      map[string]any{"rich_text": richText([]document.Run{document.Text(v.Text)})},
		}, nil
	case document.Paragraph:
		return map[string]any{
			"object":    "block",
			"type":      "paragraph",
			"paragraph": map[string]any{"rich_text": richText(v.Runs)},
		}, nil
	case document.Image:
		return map[string]any{
			"object": "block",
			"type":   "image",
			"image": map[string]any{
				"type":     "external",
				"external": map[string]any{"url": v.URL},
			},
		}, nil
	case document.Divider:
		return map[string]any{
			"object":  "block",
			"type":    "divider",
			"divider": map[string]any{},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported block type %T", b)
	}
}

func richText(runs []document.Run) []map[string]any {
	out := make([]map[string]any, 0, len(runs))
	for _, r := range runs {
		for _, chunk := range splitText(r.Text, maxTextLen) {
			text := map[string]any{"content": chunk}
			if r.Link != "" {
				text["link"] = map[string]any{"url": r.Link}
			}
			rt := map[string]any{"type": "text", "text": text}
			if ann := annotations(r); ann != nil {
				rt["annotations"] = ann
			}
			out = append(out, rt)
		}
	}
	return out
}

func annotations(r document.Run) map[string]any {
	if !r.Bold && !r.Italic && !r.Underline && r.Color == "" {
		return nil
	}
	ann := map[string]any{}
	if r.Bold {
		ann["bold"] = true
	}
	if r.Italic {
		ann["italic"] = true
	}
	if r.Underline {
		ann["underline"] = true
	}
	if r.Color != "" {
		ann["color"] = r.Color
	}
	return ann
}

// splitText cuts s into rune-safe chunks of at most n runes.
func splitText(s string, n int) []string {
	r := []rune(s)
	if len(r) <= n {
		return []string{s}
	}
	var out []string
	for len(r) > n {
		out = append(out, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}
