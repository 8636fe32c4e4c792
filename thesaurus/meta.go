package thesaurus

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tidwall/gjson"
)

const (
	metaInfoFile = "meta_info.json"
	metaDir      = "_meta"
)

// MetaInfo is the global registry of languages and structures, both stored
// as friendly name -> key.
type MetaInfo struct {
	Languages  *Ordered[string]
	Structures *Ordered[string]

	root string
}

// MetaStructure describes a structure's categories and concept names
// independent of any language.
type MetaStructure struct {
	Key          string
	FriendlyName string
	Categories   *Categories
	Concepts     *Ordered[string]
}

func LoadMetaInfo(root string) (*MetaInfo, error) {
	path := filepath.Join(root, metaInfoFile)
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	languages, err := objectMember(doc, path, "languages")
	if err != nil {
		return nil, err
	}
	structures, err := objectMember(doc, path, "structures")
	if err != nil {
		return nil, err
	}
	return &MetaInfo{
		Languages:  parseNames(languages),
		Structures: parseNames(structures),
		root:       root,
	}, nil
}

func parseNames(obj gjson.Result) *Ordered[string] {
	names := newOrdered[string]()
	obj.ForEach(func(k, v gjson.Result) bool {
		names.set(k.String(), v.String())
		return true
	})
	return names
}

func (m *MetaInfo) Root() string {
	return m.root
}

// LanguageKeys returns every registered language key in declared order.
func (m *MetaInfo) LanguageKeys() []string {
	keys := make([]string, 0, m.Languages.Len())
	for _, name := range m.Languages.Keys() {
		key, _ := m.Languages.Get(name)
		keys = append(keys, key)
	}
	return keys
}

// FriendlyStructureName maps a structure key to its friendly name.
func (m *MetaInfo) FriendlyStructureName(key string) (string, bool) {
	for _, name := range m.Structures.Keys() {
		if k, _ := m.Structures.Get(name); k == key {
			return name, true
		}
	}
	return "", false
}

// ResolveStructureKey accepts either a structure key or a friendly name and
// returns both. Keys win when a string could be read either way.
func (m *MetaInfo) ResolveStructureKey(query string) (string, string, error) {
	if name, ok := m.FriendlyStructureName(query); ok {
		return query, name, nil
	}
	if key, ok := m.Structures.Get(query); ok {
		return key, query, nil
	}
	return "", "", notFound(filepath.Join(m.root, metaInfoFile), fmt.Errorf("no structure matches %q", query))
}

// Structure resolves query and loads the matching meta structure file.
func (m *MetaInfo) Structure(query string) (*MetaStructure, error) {
	key, name, err := m.ResolveStructureKey(query)
	if err != nil {
		return nil, err
	}
	return LoadMetaStructure(m.root, key, name)
}

func LoadMetaStructure(root string, key string, friendlyName string) (*MetaStructure, error) {
	path := filepath.Join(root, metaDir, key+".json")
	if !validKey(key) {
		return nil, notFound(path, errors.New("invalid structure key"))
	}
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	categories, err := objectMember(doc, path, "categories")
	if err != nil {
		return nil, err
	}
	concepts, err := objectMember(doc, path, key)
	if err != nil {
		return nil, err
	}

	names := newOrdered[string]()
	concepts.ForEach(func(k, v gjson.Result) bool {
		names.set(k.String(), v.Get("name").String())
		return true
	})
	return &MetaStructure{
		Key:          key,
		FriendlyName: friendlyName,
		Categories:   parseCategories(categories),
		Concepts:     names,
	}, nil
}
