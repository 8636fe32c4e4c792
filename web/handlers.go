package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/Financial-Times/syntax-thesaurus/display"
	"github.com/Financial-Times/syntax-thesaurus/thesaurus"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	metrics "github.com/rcrowley/go-metrics"
)

//go:embed static
var staticFS embed.FS

const (
	randomLanguageCount = 3
	revisionHeader      = "X-Thesaurus-Revision"
)

// ConnectivityChecker is the part of the Kafka consumer the health checks use.
type ConnectivityChecker interface {
	ConnectivityCheck() error
}

type compareQuery struct {
	Lang1   string `validate:"required"`
	Lang2   string `validate:"required"`
	Concept string
}

type referenceQuery struct {
	Lang    string `validate:"required"`
	Concept string
}

type ThesaurusHandler struct {
	registry    *thesaurus.Registry
	highlighter *display.Highlighter
	formatter   *display.Formatter
	renderer    *Renderer
	consumer    ConnectivityChecker
	validate    *validator.Validate
	log         *logger.UPPLogger
}

// NewHandler wires the page handlers. consumer may be nil when reload
// notifications are not consumed from Kafka.
func NewHandler(registry *thesaurus.Registry, highlighter *display.Highlighter, consumer ConnectivityChecker, log *logger.UPPLogger) (*ThesaurusHandler, error) {
	renderer, err := NewRenderer(log)
	if err != nil {
		return nil, err
	}
	return &ThesaurusHandler{
		registry:    registry,
		highlighter: highlighter,
		formatter:   display.NewFormatter(highlighter),
		renderer:    renderer,
		consumer:    consumer,
		validate:    validator.New(),
		log:         log,
	}, nil
}

func (h *ThesaurusHandler) RegisterHandlers(router *mux.Router) {
	h.log.Info("Registering handlers")
	router.Use(h.recoverPanics, h.stampRevision)

	router.Handle("/", handlers.MethodHandler{"GET": http.HandlerFunc(h.IndexHandler)})
	router.Handle("/about", handlers.MethodHandler{"GET": http.HandlerFunc(h.AboutHandler)})
	router.Handle("/compare", handlers.MethodHandler{"GET": http.HandlerFunc(h.CompareHandler)})
	router.Handle("/reference", handlers.MethodHandler{"GET": http.HandlerFunc(h.ReferenceHandler)})

	router.Handle("/static/highlight.css", handlers.MethodHandler{"GET": http.HandlerFunc(h.highlightCSS)})
	static, _ := fs.Sub(staticFS, "static")
	router.PathPrefix("/static/").Handler(h.forbidListing(http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	router.NotFoundHandler = http.HandlerFunc(h.notFound)
}

func (h *ThesaurusHandler) IndexHandler(rw http.ResponseWriter, req *http.Request) {
	meta := h.registry.MetaInfo()

	payload := IndexPayload{Title: "Welcome"}
	for _, name := range meta.Languages.Keys() {
		key, _ := meta.Languages.Get(name)
		payload.Languages = append(payload.Languages, NamedKey{Name: name, Key: key})
	}
	for _, name := range meta.Structures.Keys() {
		key, _ := meta.Structures.Get(name)
		payload.Structures = append(payload.Structures, NamedKey{Name: name, Key: key})
	}
	payload.RandomLanguages = randomSample(meta.LanguageKeys(), randomLanguageCount)

	h.renderer.Page(rw, req, http.StatusOK, "index.html", payload)
}

func (h *ThesaurusHandler) AboutHandler(rw http.ResponseWriter, req *http.Request) {
	h.renderer.Page(rw, req, http.StatusOK, "about.html", AboutPayload{Title: "About"})
}

func (h *ThesaurusHandler) CompareHandler(rw http.ResponseWriter, req *http.Request) {
	tid := transactionidutils.GetTransactionIDFromRequest(req)
	rw.Header().Set("X-Request-Id", tid)

	values, err := url.ParseQuery(req.URL.RawQuery)
	if err != nil {
		h.log.WithTransactionID(tid).WithError(err).Warn("Malformed query string")
		h.renderer.Error(rw, req, http.StatusBadRequest, "")
		return
	}
	query := compareQuery{
		Lang1:   display.Sanitize(values.Get("lang1")),
		Lang2:   display.Sanitize(values.Get("lang2")),
		Concept: display.Sanitize(values.Get("concept")),
	}

	payload, err := h.compare(query)
	if err != nil {
		h.lookupFailed(tid, "compare", err)
		message := "The " + payload.ConceptFriendlyName + " concept of either the " + query.Lang1 + " or " +
			query.Lang2 + " languages doesn't exist or hasn't been implemented yet."
		h.renderer.Error(rw, req, http.StatusNotFound, message)
		return
	}
	metrics.GetOrRegisterMeter("compare.found", metrics.DefaultRegistry).Mark(1)
	h.renderer.Page(rw, req, http.StatusOK, "compare.html", payload)
}

// compare always fills ConceptFriendlyName so failures can name what was asked for.
func (h *ThesaurusHandler) compare(query compareQuery) (ComparePayload, error) {
	payload := ComparePayload{ConceptFriendlyName: query.Concept}
	if err := h.validate.Struct(query); err != nil {
		return payload, errors.Join(thesaurus.ErrEmptyLanguageKey, err)
	}

	structure, err := h.registry.MetaInfo().Structure(query.Concept)
	if err != nil {
		return payload, err
	}
	payload.ConceptFriendlyName = structure.FriendlyName

	lang1 := h.registry.Language(query.Lang1)
	if err := lang1.Load(structure.Key); err != nil {
		return payload, err
	}
	lang2 := h.registry.Language(query.Lang2)
	if err := lang2.Load(structure.Key); err != nil {
		return payload, err
	}

	payload.Title = "Comparing " + lang1.FriendlyName + " " + lang2.FriendlyName
	payload.Concept = structure.Key
	payload.Lang1, payload.Lang2 = lang1.Key, lang2.Key
	payload.Lang1FriendlyName, payload.Lang2FriendlyName = lang1.FriendlyName, lang2.FriendlyName

	payload.Categories = []Category{}
	for _, categoryKey := range structure.Categories.Keys() {
		concepts, _ := structure.Categories.Get(categoryKey)
		payload.Categories = append(payload.Categories, Category{ID: categoryKey, Concepts: concepts})
	}
	payload.Concepts = []ComparedConcept{}
	for _, conceptKey := range structure.Concepts.Keys() {
		name, _ := structure.Concepts.Get(conceptKey)
		payload.Concepts = append(payload.Concepts, ComparedConcept{
			ID:       conceptKey,
			Name:     name,
			Code1:    template.HTML(h.formatter.FormatCode(conceptKey, lang1)),
			Code2:    template.HTML(h.formatter.FormatCode(conceptKey, lang2)),
			Comment1: h.formatter.FormatComment(conceptKey, lang1),
			Comment2: h.formatter.FormatComment(conceptKey, lang2),
		})
	}
	return payload, nil
}

func (h *ThesaurusHandler) ReferenceHandler(rw http.ResponseWriter, req *http.Request) {
	tid := transactionidutils.GetTransactionIDFromRequest(req)
	rw.Header().Set("X-Request-Id", tid)

	values, err := url.ParseQuery(req.URL.RawQuery)
	if err != nil {
		h.log.WithTransactionID(tid).WithError(err).Warn("Malformed query string")
		h.renderer.Error(rw, req, http.StatusBadRequest, "")
		return
	}
	query := referenceQuery{
		Lang:    display.Sanitize(values.Get("lang")),
		Concept: display.Sanitize(values.Get("concept")),
	}

	payload, err := h.reference(query)
	if err != nil {
		h.lookupFailed(tid, "reference", err)
		message := "The " + payload.ConceptFriendlyName + " concept of the " + query.Lang +
			" language doesn't exist or hasn't been implemented yet."
		h.renderer.Error(rw, req, http.StatusNotFound, message)
		return
	}
	metrics.GetOrRegisterMeter("reference.found", metrics.DefaultRegistry).Mark(1)
	h.renderer.Page(rw, req, http.StatusOK, "reference.html", payload)
}

func (h *ThesaurusHandler) reference(query referenceQuery) (ReferencePayload, error) {
	payload := ReferencePayload{ConceptFriendlyName: query.Concept}
	if err := h.validate.Struct(query); err != nil {
		return payload, errors.Join(thesaurus.ErrEmptyLanguageKey, err)
	}

	structure, err := h.registry.MetaInfo().Structure(query.Concept)
	if err != nil {
		return payload, err
	}
	payload.ConceptFriendlyName = structure.FriendlyName

	lang := h.registry.Language(query.Lang)
	if err := lang.Load(structure.Key); err != nil {
		return payload, err
	}

	payload.Title = "Reference for " + lang.Key
	payload.Concept = structure.Key
	payload.Lang = lang.Key
	payload.LangFriendlyName = lang.FriendlyName

	// Only the categories this language supplies, described by the meta file
	// where it knows them.
	payload.Categories = []Category{}
	for _, categoryKey := range lang.Categories.Keys() {
		concepts, ok := structure.Categories.Get(categoryKey)
		if !ok {
			concepts, _ = lang.Categories.Get(categoryKey)
		}
		payload.Categories = append(payload.Categories, Category{ID: categoryKey, Concepts: concepts})
	}
	payload.Concepts = []ReferencedConcept{}
	for _, conceptKey := range lang.Concepts.Keys() {
		name, ok := structure.Concepts.Get(conceptKey)
		if !ok {
			name = conceptKey
		}
		payload.Concepts = append(payload.Concepts, ReferencedConcept{
			ID:      conceptKey,
			Name:    name,
			Code:    template.HTML(h.formatter.FormatCode(conceptKey, lang)),
			Comment: h.formatter.FormatComment(conceptKey, lang),
		})
	}
	return payload, nil
}

func (h *ThesaurusHandler) lookupFailed(tid string, route string, err error) {
	reason := "empty language key"
	if kind, ok := thesaurus.KindOf(err); ok {
		reason = kind.String()
	} else if !errors.Is(err, thesaurus.ErrEmptyLanguageKey) {
		reason = "unexpected"
	}
	metrics.GetOrRegisterMeter(route+".notfound", metrics.DefaultRegistry).Mark(1)
	h.log.WithTransactionID(tid).WithError(err).WithFields(map[string]interface{}{
		"route":  route,
		"reason": reason,
	}).Info("Thesaurus lookup failed")
}

func (h *ThesaurusHandler) highlightCSS(rw http.ResponseWriter, req *http.Request) {
	rw.Header().Set("Content-Type", "text/css; charset=utf-8")
	if err := h.highlighter.WriteCSS(rw); err != nil {
		h.log.WithError(err).Error("Could not write highlight stylesheet")
	}
}

func randomSample(keys []string, n int) []string {
	sample := append([]string(nil), keys...)
	rand.Shuffle(len(sample), func(i, j int) {
		sample[i], sample[j] = sample[j], sample[i]
	})
	if len(sample) > n {
		sample = sample[:n]
	}
	return sample
}

func (h *ThesaurusHandler) stampRevision(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.Header().Set(revisionHeader, h.registry.Revision())
		next.ServeHTTP(rw, req)
	})
}

func (h *ThesaurusHandler) forbidListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			h.renderer.Error(rw, req, http.StatusForbidden, "")
			return
		}
		next.ServeHTTP(rw, req)
	})
}
