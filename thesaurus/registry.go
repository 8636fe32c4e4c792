package thesaurus

import (
	"sync"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/pborman/uuid"
	metrics "github.com/rcrowley/go-metrics"
)

// Registry keeps the MetaInfo read at start-up. Reload swaps in a fresh copy;
// a failed reload leaves the previous one in place.
type Registry struct {
	root    string
	log     *logger.UPPLogger
	reloads metrics.Counter

	mu       sync.RWMutex
	meta     *MetaInfo
	revision string
}

func NewRegistry(root string, log *logger.UPPLogger) (*Registry, error) {
	r := &Registry{
		root:    root,
		log:     log,
		reloads: metrics.GetOrRegisterCounter("thesaurus.reloads", metrics.DefaultRegistry),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Reload() error {
	meta, err := LoadMetaInfo(r.root)
	if err != nil {
		r.log.WithError(err).WithField("thesaurus_path", r.root).Error("Failed to load thesaurus meta info")
		return err
	}
	revision := uuid.New()

	r.mu.Lock()
	r.meta = meta
	r.revision = revision
	r.mu.Unlock()

	r.reloads.Inc(1)
	r.log.WithFields(map[string]interface{}{
		"thesaurus_path": r.root,
		"revision":       revision,
		"languages":      meta.Languages.Len(),
		"structures":     meta.Structures.Len(),
	}).Info("Loaded thesaurus meta info")
	return nil
}

func (r *Registry) MetaInfo() *MetaInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.meta
}

// Revision identifies the currently loaded MetaInfo; it changes on every
// successful reload.
func (r *Registry) Revision() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

func (r *Registry) Root() string {
	return r.root
}

// Language returns an unloaded Language rooted at the registry's store.
func (r *Registry) Language(key string) *Language {
	return NewLanguage(r.root, key)
}
