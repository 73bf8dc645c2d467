package rendering

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// converter passes raw inline HTML through unescaped: the contact-info-line
// div the resume prompt mandates is embedded as literal HTML inside the
// Markdown and must survive conversion.
var converter = goldmark.New(
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// ToHTML converts generated Markdown into an HTML fragment. The model is
// trusted to follow the mandated skeleton but never validated against it;
// arbitrary Markdown converts fine and simply renders as it is.
func ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdown), &buf); err != nil {
		return "", &RenderError{Message: "markdown conversion failed", Cause: err}
	}
	return buf.String(), nil
}

// plainTextReplacer strips bold markers and bracket characters. Lossy and
// purely cosmetic: link URLs are discarded, not reformatted.
var plainTextReplacer = strings.NewReplacer("**", "", "*", "", "[", "", "]", "")

// PlainText returns the Markdown as UTF-8 bytes with `**`, `*`, `[` and `]`
// removed, for download into a word processor. Applying it twice yields the
// same bytes as once. This path shares nothing with the HTML pipeline.
func PlainText(markdown string) []byte {
	return []byte(plainTextReplacer.Replace(markdown))
}
