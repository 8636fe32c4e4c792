package thesaurus

import (
	"errors"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// Language holds one language's thesaurus for a single structure. It is
// empty until Load is called.
type Language struct {
	Key          string
	FriendlyName string
	Categories   *Categories
	Concepts     *Ordered[Concept]

	root string
}

func NewLanguage(root string, key string) *Language {
	return &Language{Key: key, root: root}
}

// Load reads <root>/<key>/<structureKey>.json.
func (l *Language) Load(structureKey string) error {
	if l.Key == "" {
		return ErrEmptyLanguageKey
	}
	path := filepath.Join(l.root, l.Key, structureKey+".json")
	if !validKey(l.Key) || !validKey(structureKey) {
		return notFound(path, errors.New("invalid language or structure key"))
	}

	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	categories, err := objectMember(doc, path, "categories")
	if err != nil {
		return err
	}
	concepts, err := objectMember(doc, path, structureKey)
	if err != nil {
		return err
	}

	l.FriendlyName = doc.Get("meta.language_name").String()
	l.Categories = parseCategories(categories)
	l.Concepts = newOrdered[Concept]()
	concepts.ForEach(func(k, v gjson.Result) bool {
		l.Concepts.set(k.String(), parseConcept(v))
		return true
	})
	return nil
}

// Lookup returns the concept and its state. Unknown concepts come back as
// the zero Concept; not implemented ones keep only their comment.
func (l *Language) Lookup(conceptKey string) (Concept, ConceptState) {
	c, ok := l.Concepts.Get(conceptKey)
	if !ok {
		return Concept{}, Unknown
	}
	if c.NotImplemented {
		return Concept{NotImplemented: true, Comment: c.Comment}, NotImplemented
	}
	return c, Implemented
}

func (l *Language) IsUnknown(conceptKey string) bool {
	_, state := l.Lookup(conceptKey)
	return state == Unknown
}

// IsImplemented is false only for concepts explicitly flagged as not
// implemented; unknown concepts count as implemented.
func (l *Language) IsImplemented(conceptKey string) bool {
	_, state := l.Lookup(conceptKey)
	return state != NotImplemented
}
