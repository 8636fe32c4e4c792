package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Financial-Times/go-logger/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = []string{
	"index.html",
	"about.html",
	"compare.html",
	"reference.html",
	"error400.html",
	"error403.html",
	"error404.html",
	"error500.html",
}

var errorTemplates = map[int]string{
	http.StatusBadRequest:          "error400.html",
	http.StatusForbidden:           "error403.html",
	http.StatusNotFound:            "error404.html",
	http.StatusInternalServerError: "error500.html",
}

var errorTitles = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusInternalServerError: "Server Error",
}

// Renderer writes payloads either through the page templates or, when the
// client asks for it, as JSON.
type Renderer struct {
	pages map[string]*template.Template
	log   *logger.UPPLogger
}

func NewRenderer(log *logger.UPPLogger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, log: log}, nil
}

// wantsJSON reports whether application/json is the highest weighted media
// type in the Accept header. Equal weights go to the type listed first.
func wantsJSON(req *http.Request) bool {
	best, bestWeight := "", 0.0
	for _, part := range strings.Split(req.Header.Get("Accept"), ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		weight := 1.0
		if q, ok := params["q"]; ok {
			if weight, err = strconv.ParseFloat(q, 64); err != nil {
				continue
			}
		}
		if weight > bestWeight {
			best, bestWeight = mediaType, weight
		}
	}
	return best == "application/json"
}

func (r *Renderer) Page(rw http.ResponseWriter, req *http.Request, status int, name string, payload interface{}) {
	if wantsJSON(req) {
		r.writeJSON(rw, status, payload)
		return
	}

	tmpl, ok := r.pages[name]
	if !ok {
		r.log.WithField("template", name).Error("No such template")
		r.Error(rw, req, http.StatusInternalServerError, "")
		return
	}
	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "base", payload); err != nil {
		r.log.WithError(err).WithField("template", name).Error("Failed to render template")
		if name != errorTemplates[http.StatusInternalServerError] {
			r.Error(rw, req, http.StatusInternalServerError, "")
			return
		}
		http.Error(rw, errorTitles[http.StatusInternalServerError], http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(status)
	if _, err := rw.Write(body.Bytes()); err != nil {
		r.log.WithError(err).Warn("Could not write response body")
	}
}

// Error renders the fixed page for status. message may be empty.
func (r *Renderer) Error(rw http.ResponseWriter, req *http.Request, status int, message string) {
	name, ok := errorTemplates[status]
	if !ok {
		status, name = http.StatusInternalServerError, errorTemplates[http.StatusInternalServerError]
	}
	if message == "" {
		message = errorTitles[status]
	}
	r.Page(rw, req, status, name, ErrorPayload{Title: errorTitles[status], Status: status, Message: message})
}

func (r *Renderer) writeJSON(rw http.ResponseWriter, status int, payload interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(payload); err != nil {
		r.log.WithError(err).Warn("Could not write json response")
	}
}
