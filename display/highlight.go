package display

import (
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const DefaultStyle = "friendly"

// Highlighter renders code as class-annotated HTML. The matching stylesheet
// is produced by WriteCSS.
type Highlighter struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewHighlighter uses the named chroma style, or chroma's fallback style when
// the name is unknown.
func NewHighlighter(styleName string) *Highlighter {
	return &Highlighter{
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     styles.Get(styleName),
	}
}

// Highlight picks the lexer registered under language. Unknown languages
// are rendered as plain text.
func (h *Highlighter) Highlight(code string, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if err := h.formatter.Format(&out, h.style, iterator); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

func plainCode(code string) string {
	return `<pre class="chroma">` + html.EscapeString(code) + `</pre>`
}
