// Package document holds the provider-agnostic report representation and
// the assembler that builds it from articles.
package document

// Block is one unit of a rendered document. The concrete kinds are
// Heading, Paragraph, Image and Divider.
type Block interface {
	block()
}

// Heading is a section title of level 1 to 3.
type Heading struct {
	Level int
	Text  string
}

// Paragraph is a sequence of styled text runs.
type Paragraph struct {
	Runs []Run
}

// Image references an externally hosted picture.
type Image struct {
	URL string
}

// Divider is a horizontal rule.
type Divider struct{}

func (Heading) block()   {}
func (Paragraph) block() {}
func (Image) block()     {}
func (Divider) block()   {}

// Run is a span of text with emphasis and an optional hyperlink.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Color     string
	Link      string
}

// Document is an ordered list of blocks under a title. Block order is rendering order.
type Document struct {
	Title  string
	Topic  string
	Blocks []Block
}

func NewHeading(level int, text string) Heading {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	return Heading{Level: level, Text: text}
}

func NewParagraph(runs ...Run) Paragraph { return Paragraph{Runs: runs} }

func NewImage(url string) Image { return Image{URL: url} }

func NewDivider() Divider { return Divider{} }

// Text is a plain run.
func Text(s string) Run { return Run{Text: s} }

// PlainText concatenates the text of all runs.
func (p Paragraph) PlainText() string {
	n := 0
	for _, r := range p.Runs {
		n += len(r.Text)
	}
	b := make([]byte, 0, n)
	for _, r := range p.Runs {
		b = append(b, r.Text...)
	}
	return string(b)
}
