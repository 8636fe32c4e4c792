package display

import (
	"github.com/Financial-Times/syntax-thesaurus/thesaurus"
)

const (
	UnknownCode           = "Unknown"
	NotImplementedComment = "Not Implemented In This Language"
)

type Formatter struct {
	highlighter *Highlighter
}

func NewFormatter(highlighter *Highlighter) *Formatter {
	return &Formatter{highlighter: highlighter}
}

// FormatCode returns highlighted HTML for an implemented concept, UnknownCode
// when the concept is unknown or carries no code, and "" when the language
// does not implement it.
func (f *Formatter) FormatCode(conceptKey string, lang *thesaurus.Language) string {
	concept, state := lang.Lookup(conceptKey)
	if state == thesaurus.Unknown || (state == thesaurus.Implemented && !concept.HasCode) {
		return UnknownCode
	}
	if state == thesaurus.NotImplemented {
		return ""
	}
	highlighted, err := f.highlighter.Highlight(concept.Code, lang.Key)
	if err != nil {
		return plainCode(concept.Code)
	}
	return highlighted
}

// FormatComment returns the stored comment, or NotImplementedComment when the
// concept is not implemented and no comment explains why.
func (f *Formatter) FormatComment(conceptKey string, lang *thesaurus.Language) string {
	concept, state := lang.Lookup(conceptKey)
	if state == thesaurus.NotImplemented && concept.Comment == "" {
		return NotImplementedComment
	}
	return concept.Comment
}
