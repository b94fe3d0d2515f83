package markdown

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Report is a Markdown report file split into YAML frontmatter and body.
type Report struct {
	Frontmatter map[string]any
	Body        string
}

// Title returns the frontmatter title, if any.
func (r Report) Title() string {
	s, _ := r.Frontmatter["title"].(string)
	return s
}

var fence = []byte("---")

// ParseFile reads a report written by the markdown publisher (or any
// Markdown file). Frontmatter is optional and must open on the first line.
func ParseFile(path string) (Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	return Parse(raw)
}

// Parse splits raw into frontmatter and body.
func Parse(raw []byte) (Report, error) {
	rep := Report{Frontmatter: map[string]any{}}
	first, rest, _ := bytes.Cut(raw, []byte("\n"))
	if !bytes.Equal(bytes.TrimSpace(first), fence) {
		rep.Body = string(raw)
		return rep, nil
	}
	var fm bytes.Buffer
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimSpace(line), fence) {
			break
		}
		fm.Write(line)
		fm.WriteByte('\n')
	}
	if err := yaml.Unmarshal(fm.Bytes(), &rep.Frontmatter); err != nil {
		return Report{}, fmt.Errorf("frontmatter: %w", err)
	}
	if rep.Frontmatter == nil {
		rep.Frontmatter = map[string]any{}
	}
	rep.Body = string(rest)
	return rep, nil
}
