package web

import (
	"encoding/json"
	"net/http"

	"github.com/Financial-Times/kafka-client-go/v4"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
)

type reloadResponse struct {
	Message  string `json:"message"`
	Revision string `json:"revision,omitempty"`
}

// ProcessKafkaMessage reloads the registry whenever the content pipeline
// announces a thesaurus update. The message body is only logged.
func (h *ThesaurusHandler) ProcessKafkaMessage(msg kafka.FTMessage) {
	tid := msg.Headers["X-Request-Id"]
	h.log.WithTransactionID(tid).Debug("Processing thesaurus update message with body: " + msg.Body)
	if err := h.registry.Reload(); err != nil {
		h.log.WithTransactionID(tid).WithError(err).Error("Failed to reload thesaurus after update notification")
		return
	}
	h.log.WithTransactionID(tid).WithField("revision", h.registry.Revision()).Info("Reloaded thesaurus after update notification")
}

func (h *ThesaurusHandler) ReloadHandler(rw http.ResponseWriter, req *http.Request) {
	tid := transactionidutils.GetTransactionIDFromRequest(req)
	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set("X-Request-Id", tid)

	status := http.StatusOK
	resp := reloadResponse{Message: "Thesaurus reloaded"}
	if err := h.registry.Reload(); err != nil {
		h.log.WithTransactionID(tid).WithError(err).Error("Manual thesaurus reload failed")
		status = http.StatusServiceUnavailable
		resp.Message = "Thesaurus reload failed: " + err.Error()
	}
	resp.Revision = h.registry.Revision()

	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(resp); err != nil {
		h.log.WithError(err).Warn("Could not write reload response")
	}
}
