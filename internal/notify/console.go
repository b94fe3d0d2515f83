package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
)

const bannerTitle = "📰 NEWS REPORT GENERATED 📰"

// Console prints a framed banner. It cannot fail for configuration reasons.
type Console struct {
	Out io.Writer
}

func (c *Console) Channel() Channel { return ChannelConsole }

func (c *Console) Send(_ context.Context, msg Message) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := io.WriteString(out, Banner(bannerTitle, msg.Text()))
	return err
}

// Banner frames the lines in a box sized by their display width.
func Banner(lines ...string) string {
	width := 0
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w > width {
			width = w
		}
	}
	var b strings.Builder
	rule := "+" + strings.Repeat("-", width+2) + "+\n"
	b.WriteString("\n" + rule)
	for _, l := range lines {
		fmt.Fprintf(&b, "| %s |\n", runewidth.FillRight(l, width))
	}
	b.WriteString(rule + "\n")
	return b.String()
}
