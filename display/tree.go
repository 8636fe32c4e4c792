package display

import (
	"io"

	"github.com/Financial-Times/syntax-thesaurus/thesaurus"
	"github.com/ddddddO/gtree"
)

// WriteTree prints a structure's categories and the concepts under each.
// When lang is loaded, every concept is annotated with its state in that
// language.
func WriteTree(w io.Writer, structure *thesaurus.MetaStructure, lang *thesaurus.Language) error {
	root := gtree.NewRoot(structure.FriendlyName + " (" + structure.Key + ")")
	for _, categoryKey := range structure.Categories.Keys() {
		category := root.Add(categoryKey)
		conceptKeys, _ := structure.Categories.Get(categoryKey)
		for _, conceptKey := range conceptKeys {
			category.Add(conceptLabel(structure, lang, conceptKey))
		}
	}
	return gtree.OutputProgrammably(w, root)
}

func conceptLabel(structure *thesaurus.MetaStructure, lang *thesaurus.Language, conceptKey string) string {
	label := conceptKey
	if name, ok := structure.Concepts.Get(conceptKey); ok && name != "" {
		label = name + " [" + conceptKey + "]"
	}
	if lang != nil && lang.Concepts != nil {
		_, state := lang.Lookup(conceptKey)
		label += " - " + state.String()
	}
	return label
}
