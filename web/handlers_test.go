package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/Financial-Times/syntax-thesaurus/display"
	"github.com/Financial-Times/syntax-thesaurus/thesaurus"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRoot        = "../resources/thesauruses"
	jsonContentType = "application/json"
)

type mockConsumer struct {
	err error
}

func (m mockConsumer) ConnectivityCheck() error {
	return m.err
}

func createLogger() *logger.UPPLogger {
	return logger.NewUPPLogger("syntax-thesaurus-test", "PANIC")
}

func newTestHandler(t *testing.T, consumer ConnectivityChecker) (*ThesaurusHandler, *mux.Router) {
	log := createLogger()
	registry, err := thesaurus.NewRegistry(testRoot, log)
	require.NoError(t, err)
	h, err := NewHandler(registry, display.NewHighlighter(display.DefaultStyle), consumer, log)
	require.NoError(t, err)
	router := mux.NewRouter()
	h.RegisterHandlers(router)
	return h, router
}

func newRequest(method, url string, accept string) *http.Request {
	req := httptest.NewRequest(method, url, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCompareHandler(t *testing.T) {
	_, router := newTestHandler(t, nil)

	type testStruct struct {
		testName           string
		url                string
		expectedStatusCode int
		expectedContains   []string
	}

	friendlyConcept := testStruct{testName: "friendlyConcept", url: "/compare?lang1=python&lang2=javascript&concept=Loops", expectedStatusCode: http.StatusOK, expectedContains: []string{"Comparing Python JavaScript", "\"lang1_friendlyname\":\"Python\""}}
	conceptKey := testStruct{testName: "conceptKey", url: "/compare?lang1=python&lang2=ruby&concept=loops", expectedStatusCode: http.StatusOK, expectedContains: []string{"Comparing Python Ruby"}}
	markupInQuery := testStruct{testName: "markupInQuery", url: "/compare?lang1=%3Cb%3Epython%3C%2Fb%3E&lang2=javascript&concept=Loops", expectedStatusCode: http.StatusOK, expectedContains: []string{"\"lang1\":\"python\""}}
	emptyFirstLanguage := testStruct{testName: "emptyFirstLanguage", url: "/compare?lang2=javascript&concept=Loops", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"Loops concept of either the  or javascript languages"}}
	emptySecondLanguage := testStruct{testName: "emptySecondLanguage", url: "/compare?lang1=python&concept=Loops", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"either the python or  languages"}}
	missingLanguageFile := testStruct{testName: "missingLanguageFile", url: "/compare?lang1=python&lang2=ruby&concept=Arrays", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"The Arrays concept of either the python or ruby languages doesn't exist or hasn't been implemented yet."}}
	malformedLanguageFile := testStruct{testName: "malformedLanguageFile", url: "/compare?lang1=java&lang2=python&concept=Loops", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"either the java or python"}}
	unknownStructure := testStruct{testName: "unknownStructure", url: "/compare?lang1=python&lang2=javascript&concept=Trees", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"The Trees concept of either the python or javascript"}}
	missingMetaStructure := testStruct{testName: "missingMetaStructure", url: "/compare?lang1=python&lang2=javascript&concept=Strings", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"The Strings concept"}}
	pathTraversal := testStruct{testName: "pathTraversal", url: "/compare?lang1=..%2F..%2Fetc&lang2=python&concept=Loops", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"doesn't exist"}}
	malformedQuery := testStruct{testName: "malformedQuery", url: "/compare?lang1=%zz", expectedStatusCode: http.StatusBadRequest, expectedContains: []string{"Bad Request"}}

	testScenarios := []testStruct{friendlyConcept, conceptKey, markupInQuery, emptyFirstLanguage, emptySecondLanguage, missingLanguageFile, malformedLanguageFile, unknownStructure, missingMetaStructure, pathTraversal, malformedQuery}

	for _, scenario := range testScenarios {
		rec := serve(router, newRequest("GET", scenario.url, jsonContentType))
		assert.Equal(t, scenario.expectedStatusCode, rec.Code, "Scenario: "+scenario.testName+" failed")
		assert.Equal(t, jsonContentType, rec.Header().Get("Content-Type"), "Scenario: "+scenario.testName+" failed")
		for _, fragment := range scenario.expectedContains {
			assert.Contains(t, rec.Body.String(), fragment, "Scenario: "+scenario.testName+" failed")
		}
	}
}

func TestComparePayload(t *testing.T) {
	_, router := newTestHandler(t, nil)

	rec := serve(router, newRequest("GET", "/compare?lang1=python&lang2=javascript&concept=Loops", jsonContentType))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload ComparePayload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))

	assert.Equal(t, "loops", payload.Concept)
	assert.Equal(t, "Loops", payload.ConceptFriendlyName)
	assert.Equal(t, "python", payload.Lang1)
	assert.Equal(t, "javascript", payload.Lang2)
	assert.Equal(t, []Category{
		{ID: "Counting", Concepts: []string{"for-loop", "range-loop"}},
		{ID: "Conditional", Concepts: []string{"while-loop", "do-while-loop"}},
	}, payload.Categories)

	var ids []string
	for _, c := range payload.Concepts {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"for-loop", "range-loop", "while-loop", "do-while-loop"}, ids)

	forLoop := payload.Concepts[0]
	assert.Equal(t, "For loop", forLoop.Name)
	assert.NotEmpty(t, forLoop.Code1)
	assert.NotEmpty(t, forLoop.Code2)
	assert.NotEqual(t, display.UnknownCode, string(forLoop.Code1))
	assert.NotEqual(t, display.UnknownCode, string(forLoop.Code2))
	assert.NotEqual(t, display.NotImplementedComment, forLoop.Comment1)
	assert.NotEqual(t, display.NotImplementedComment, forLoop.Comment2)

	rangeLoop := payload.Concepts[1]
	assert.NotEmpty(t, rangeLoop.Code1)
	assert.Empty(t, rangeLoop.Code2)
	assert.Equal(t, display.NotImplementedComment, rangeLoop.Comment2)

	doWhile := payload.Concepts[3]
	assert.Empty(t, doWhile.Code1)
	assert.Equal(t, "Python has no do/while; use while True with break", doWhile.Comment1)
}

func TestReferenceHandler(t *testing.T) {
	_, router := newTestHandler(t, nil)

	type testStruct struct {
		testName           string
		url                string
		expectedStatusCode int
		expectedContains   []string
	}

	pythonLoops := testStruct{testName: "pythonLoops", url: "/reference?lang=python&concept=Loops", expectedStatusCode: http.StatusOK, expectedContains: []string{"Reference for python"}}
	rubyArrays := testStruct{testName: "rubyArrays", url: "/reference?lang=ruby&concept=Arrays", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"The Arrays concept of the ruby language doesn't exist or hasn't been implemented yet."}}
	emptyLanguage := testStruct{testName: "emptyLanguage", url: "/reference?concept=Loops", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"The Loops concept of the  language"}}
	unknownStructure := testStruct{testName: "unknownStructure", url: "/reference?lang=python&concept=Trees", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"The Trees concept of the python language"}}
	malformedQuery := testStruct{testName: "malformedQuery", url: "/reference?lang=%zz", expectedStatusCode: http.StatusBadRequest}

	testScenarios := []testStruct{pythonLoops, rubyArrays, emptyLanguage, unknownStructure, malformedQuery}

	for _, scenario := range testScenarios {
		rec := serve(router, newRequest("GET", scenario.url, jsonContentType))
		assert.Equal(t, scenario.expectedStatusCode, rec.Code, "Scenario: "+scenario.testName+" failed")
		for _, fragment := range scenario.expectedContains {
			assert.Contains(t, rec.Body.String(), fragment, "Scenario: "+scenario.testName+" failed")
		}
	}
}

func TestReferencePayload(t *testing.T) {
	_, router := newTestHandler(t, nil)

	rec := serve(router, newRequest("GET", "/reference?lang=python&concept=arrays", jsonContentType))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload ReferencePayload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))

	assert.Equal(t, "python", payload.Lang)
	assert.Equal(t, "Python", payload.LangFriendlyName)
	assert.Equal(t, "Arrays", payload.ConceptFriendlyName)
	assert.Equal(t, []Category{{ID: "Creation", Concepts: []string{"empty-array", "literal-array"}}}, payload.Categories,
		"only categories the language supplies are listed, described by the meta file")

	require.Len(t, payload.Concepts, 3)
	assert.Equal(t, "literal-array", payload.Concepts[0].ID)
	assert.Equal(t, "Array literal", payload.Concepts[0].Name)
	assert.Equal(t, "", payload.Concepts[1].Comment)
	assert.Equal(t, "slice-copy", payload.Concepts[2].ID)
	assert.Equal(t, "slice-copy", payload.Concepts[2].Name, "concepts missing from the meta file are named by key")
}

func TestHTMLPages(t *testing.T) {
	_, router := newTestHandler(t, nil)

	type testStruct struct {
		testName           string
		url                string
		expectedStatusCode int
		expectedContains   []string
		expectedMissing    []string
	}

	index := testStruct{testName: "index", url: "/", expectedStatusCode: http.StatusOK, expectedContains: []string{"<title>Welcome", "<option value=\"javascript\">JavaScript</option>", "<option value=\"arrays\">Arrays</option>"}}
	about := testStruct{testName: "about", url: "/about", expectedStatusCode: http.StatusOK, expectedContains: []string{"<title>About"}}
	compare := testStruct{testName: "compare", url: "/compare?lang1=python&lang2=javascript&concept=Loops", expectedStatusCode: http.StatusOK, expectedContains: []string{"<th>Python</th>", "class=\"chroma\"", "&lt;b&gt;Checks&lt;/b&gt;", "Not Implemented In This Language"}, expectedMissing: []string{"<b>Checks</b>"}}
	reference := testStruct{testName: "reference", url: "/reference?lang=python&concept=Loops", expectedStatusCode: http.StatusOK, expectedContains: []string{"Loops in Python", "Python has no do/while"}}
	notFound := testStruct{testName: "notFound", url: "/reference?lang=ruby&concept=Arrays", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"404 Not Found", "The Arrays concept of the ruby language"}}
	unknownRoute := testStruct{testName: "unknownRoute", url: "/nowhere", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"404 Not Found"}}
	badRequest := testStruct{testName: "badRequest", url: "/compare?concept=%zz", expectedStatusCode: http.StatusBadRequest, expectedContains: []string{"400 Bad Request"}}
	staticListing := testStruct{testName: "staticListing", url: "/static/", expectedStatusCode: http.StatusForbidden, expectedContains: []string{"403 Forbidden"}}
	staticFile := testStruct{testName: "staticFile", url: "/static/site.css", expectedStatusCode: http.StatusOK, expectedContains: []string{"border-collapse"}}
	highlightCSS := testStruct{testName: "highlightCSS", url: "/static/highlight.css", expectedStatusCode: http.StatusOK, expectedContains: []string{".chroma"}}

	ampersandInConcept := testStruct{testName: "ampersandInConcept", url: "/reference?lang=python&concept=Fish%20%26%20Chips", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"The Fish &amp; Chips concept of the python language"}, expectedMissing: []string{"&amp;amp;"}}
	apostropheInLanguage := testStruct{testName: "apostropheInLanguage", url: "/reference?lang=o%27brien&concept=Loops", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"The Loops concept of the o&#39;brien language"}, expectedMissing: []string{"&amp;#39;"}}
	markupInCompare := testStruct{testName: "markupInCompare", url: "/compare?lang1=%3Ci%3Epy%3C%2Fi%3E%20%26%20co&lang2=ruby&concept=Loops", expectedStatusCode: http.StatusNotFound, expectedContains: []string{"either the py &amp; co or ruby languages"}, expectedMissing: []string{"&amp;amp;", "<i>"}}

	testScenarios := []testStruct{index, about, compare, reference, notFound, unknownRoute, badRequest, staticListing, staticFile, highlightCSS, ampersandInConcept, apostropheInLanguage, markupInCompare}

	for _, scenario := range testScenarios {
		rec := serve(router, newRequest("GET", scenario.url, ""))
		assert.Equal(t, scenario.expectedStatusCode, rec.Code, "Scenario: "+scenario.testName+" failed")
		for _, fragment := range scenario.expectedContains {
			assert.Contains(t, rec.Body.String(), fragment, "Scenario: "+scenario.testName+" failed")
		}
		for _, fragment := range scenario.expectedMissing {
			assert.NotContains(t, rec.Body.String(), fragment, "Scenario: "+scenario.testName+" failed")
		}
	}
}

func TestIndexPicksRandomLanguages(t *testing.T) {
	_, router := newTestHandler(t, nil)

	rec := serve(router, newRequest("GET", "/", jsonContentType))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload IndexPayload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Len(t, payload.Languages, 4)
	assert.Len(t, payload.RandomLanguages, randomLanguageCount)
	for _, key := range payload.RandomLanguages {
		assert.Contains(t, []string{"python", "javascript", "ruby", "java"}, key)
	}
}

func TestRandomSample(t *testing.T) {
	assert.Len(t, randomSample([]string{"a", "b"}, 3), 2)
	assert.Empty(t, randomSample(nil, 3))

	keys := []string{"a", "b", "c", "d", "e"}
	sample := randomSample(keys, 3)
	assert.Len(t, sample, 3)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, keys, "input must not be reordered")
	seen := map[string]bool{}
	for _, k := range sample {
		assert.False(t, seen[k], "sample must not repeat keys")
		seen[k] = true
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, router := newTestHandler(t, nil)
	rec := serve(router, newRequest("POST", "/compare?lang1=python&lang2=javascript&concept=Loops", ""))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPanicRendersServerError(t *testing.T) {
	_, router := newTestHandler(t, nil)
	router.HandleFunc("/explode", func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	})

	rec := serve(router, newRequest("GET", "/explode", ""))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "500 Server Error")

	rec = serve(router, newRequest("GET", "/explode", jsonContentType))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.JSONEq(t, `{"message": "Server Error"}`, string(body))
}

func TestHeaders(t *testing.T) {
	h, router := newTestHandler(t, nil)

	req := newRequest("GET", "/compare?lang1=python&lang2=javascript&concept=Loops", "")
	req.Header.Set("X-Request-Id", "tid_thesaurus_test")
	rec := serve(router, req)

	assert.Equal(t, "tid_thesaurus_test", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, h.registry.Revision(), rec.Header().Get(revisionHeader))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
}
