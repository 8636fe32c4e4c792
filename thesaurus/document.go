package thesaurus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// readDocument reads and validates a JSON file. gjson is used instead of
// encoding/json so that object keys can be walked in the order the authors
// declared them.
func readDocument(path string) (gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gjson.Result{}, notFound(path, err)
		}
		return gjson.Result{}, &LoadError{Kind: IOError, Path: path, Err: err}
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &LoadError{Kind: ParseError, Path: path, Err: errors.New("invalid json")}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return gjson.Result{}, &LoadError{Kind: ParseError, Path: path, Err: errors.New("top level value is not an object")}
	}
	return doc, nil
}

// member finds key in obj by exact comparison, so keys containing gjson path
// syntax are still matched literally.
func member(obj gjson.Result, key string) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

func objectMember(doc gjson.Result, path string, key string) (gjson.Result, error) {
	v, ok := member(doc, key)
	if !ok {
		return gjson.Result{}, notFound(path, fmt.Errorf("missing %q section", key))
	}
	if !v.IsObject() {
		return gjson.Result{}, &LoadError{Kind: ParseError, Path: path, Err: fmt.Errorf("%q section is not an object", key)}
	}
	return v, nil
}

func parseCategories(obj gjson.Result) *Categories {
	categories := newOrdered[[]string]()
	obj.ForEach(func(k, v gjson.Result) bool {
		var keys []string
		for _, c := range v.Array() {
			keys = append(keys, c.String())
		}
		categories.set(k.String(), keys)
		return true
	})
	return categories
}

func parseConcept(v gjson.Result) Concept {
	c := Concept{
		Name:           v.Get("name").String(),
		Comment:        v.Get("comment").String(),
		NotImplemented: v.Get("not-implemented").Bool(),
	}
	code := v.Get("code")
	switch {
	case !code.Exists() || code.Type == gjson.Null:
	case code.IsArray():
		var lines []string
		for _, line := range code.Array() {
			lines = append(lines, line.String())
		}
		c.Code, c.HasCode = strings.Join(lines, "\n"), true
	default:
		c.Code, c.HasCode = code.String(), true
	}
	return c
}

// validKey rejects keys that cannot name a single entry of the store directory.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "_") || strings.ContainsAny(key, `/\`) {
		return false
	}
	return filepath.IsLocal(key)
}
