package web

import (
	"net/http"

	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
)

func (h *ThesaurusHandler) notFound(rw http.ResponseWriter, req *http.Request) {
	h.renderer.Error(rw, req, http.StatusNotFound, "")
}

func (h *ThesaurusHandler) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				h.log.WithTransactionID(transactionidutils.GetTransactionIDFromRequest(req)).
					WithField("panic", recovered).
					WithField("path", req.URL.Path).
					Error("Recovered from panic while serving request")
				h.renderer.Error(rw, req, http.StatusInternalServerError, "")
			}
		}()
		next.ServeHTTP(rw, req)
	})
}
