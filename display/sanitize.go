package display

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Sanitize strips every tag from s and returns plain text. The result is not
// escaped; templates escape it when it is echoed back.
func Sanitize(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}
