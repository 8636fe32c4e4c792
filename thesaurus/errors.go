package thesaurus

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KeyNotFound ErrorKind = iota
	ParseError
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case KeyNotFound:
		return "key not found"
	case ParseError:
		return "parse error"
	case IOError:
		return "io error"
	default:
		return "unknown"
	}
}

// ErrEmptyLanguageKey is returned when a lookup is attempted without a language key.
var ErrEmptyLanguageKey = errors.New("language key is empty")

// LoadError describes why a thesaurus or meta file could not be used.
// Callers present every kind the same way; Kind is kept for logs and tests.
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// KindOf reports the LoadError kind wrapped in err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Kind, true
	}
	return 0, false
}

func notFound(path string, err error) *LoadError {
	return &LoadError{Kind: KeyNotFound, Path: path, Err: err}
}
