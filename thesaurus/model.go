package thesaurus

type ConceptState int

const (
	Unknown ConceptState = iota
	NotImplemented
	Implemented
)

func (s ConceptState) String() string {
	switch s {
	case NotImplemented:
		return "not-implemented"
	case Implemented:
		return "implemented"
	default:
		return "unknown"
	}
}

// Concept is one entry of a thesaurus file. HasCode is false when the
// record carries no code at all, which is distinct from an empty snippet.
type Concept struct {
	Name           string
	Code           string
	HasCode        bool
	Comment        string
	NotImplemented bool
}

// Ordered is a string-keyed map that remembers the order keys were declared in.
type Ordered[V any] struct {
	keys   []string
	values map[string]V
}

func newOrdered[V any]() *Ordered[V] {
	return &Ordered[V]{values: map[string]V{}}
}

func (o *Ordered[V]) set(key string, value V) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *Ordered[V]) Get(key string) (V, bool) {
	if o == nil {
		var zero V
		return zero, false
	}
	v, ok := o.values[key]
	return v, ok
}

func (o *Ordered[V]) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the keys in declared order. The slice must not be modified.
func (o *Ordered[V]) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

func (o *Ordered[V]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Categories maps a category key to the concept keys it groups.
type Categories = Ordered[[]string]
