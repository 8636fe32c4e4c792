package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/Financial-Times/http-handlers-go/httphandlers"
	"github.com/Financial-Times/service-status-go/gtg"
	serviceStatus "github.com/Financial-Times/service-status-go/httphandlers"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	metrics "github.com/rcrowley/go-metrics"
)

const (
	panicGuideURL  = "https://runbooks.ftops.tech/syntax-thesaurus"
	businessImpact = "Readers will not be able to look up or compare language syntax"
	ReloadPath     = "/__reload"
)

func (h *ThesaurusHandler) RegisterAdminHandlers(serveMux *http.ServeMux, router *mux.Router, appSystemCode string, appName string, appDescription string) {
	h.log.Info("Registering admin handlers")

	var monitoringRouter http.Handler = router
	monitoringRouter = httphandlers.TransactionAwareRequestLoggingHandler(h.log.Logger, monitoringRouter)
	monitoringRouter = httphandlers.HTTPMetricsHandler(metrics.DefaultRegistry, monitoringRouter)

	checks := []fthealth.Check{h.thesaurusStoreHealthCheck()}
	if h.consumer != nil {
		checks = append(checks, h.kafkaHealthCheck())
	}

	timedHC := fthealth.TimedHealthCheck{
		HealthCheck: fthealth.HealthCheck{
			SystemCode:  appSystemCode,
			Description: appDescription,
			Name:        appName,
			Checks:      checks,
		},
		Timeout: 10 * time.Second,
	}

	serveMux.HandleFunc("/__health", fthealth.Handler(&timedHC))
	serveMux.HandleFunc(serviceStatus.GTGPath, serviceStatus.NewGoodToGoHandler(gtg.StatusChecker(h.gtg)))
	serveMux.HandleFunc(serviceStatus.BuildInfoPath, serviceStatus.BuildInfoHandler)
	serveMux.Handle(ReloadPath, handlers.MethodHandler{"POST": http.HandlerFunc(h.ReloadHandler)})

	serveMux.Handle("/", monitoringRouter)
}

func (h *ThesaurusHandler) gtg() gtg.Status {
	storeCheck := func() gtg.Status {
		return gtgCheck(h.checkThesaurusStore)
	}
	checkers := []gtg.StatusChecker{storeCheck}
	if h.consumer != nil {
		checkers = append(checkers, func() gtg.Status {
			return gtgCheck(h.checkKafkaConnectivity)
		})
	}
	return gtg.FailFastParallelCheck(checkers)()
}

func gtgCheck(handler func() (string, error)) gtg.Status {
	if _, err := handler(); err != nil {
		return gtg.Status{GoodToGo: false, Message: err.Error()}
	}
	return gtg.Status{GoodToGo: true}
}

func (h *ThesaurusHandler) thesaurusStoreHealthCheck() fthealth.Check {
	return fthealth.Check{
		BusinessImpact:   businessImpact,
		Name:             "Check the thesaurus store is readable",
		PanicGuide:       panicGuideURL,
		Severity:         2,
		TechnicalSummary: `Check that the thesaurus directory is mounted and meta_info.json is present`,
		Checker:          h.checkThesaurusStore,
	}
}

func (h *ThesaurusHandler) kafkaHealthCheck() fthealth.Check {
	return fthealth.Check{
		BusinessImpact:   "Thesaurus updates will only be picked up after a restart or a manual reload",
		Name:             "Check connectivity to Kafka",
		PanicGuide:       panicGuideURL,
		Severity:         3,
		TechnicalSummary: `Check that kafka is healthy in this cluster; if so restart this service`,
		Checker:          h.checkKafkaConnectivity,
	}
}

func (h *ThesaurusHandler) checkThesaurusStore() (string, error) {
	if h.registry.MetaInfo() == nil {
		return "No thesaurus meta info loaded", errors.New("thesaurus meta info is not loaded")
	}
	path := filepath.Join(h.registry.Root(), "meta_info.json")
	if _, err := os.Stat(path); err != nil {
		clientError := fmt.Sprintf("Cannot read %s", path)
		h.log.WithError(err).Error(clientError)
		return clientError, errors.New("unable to verify availability of the thesaurus store")
	}
	return "Thesaurus store is readable", nil
}

func (h *ThesaurusHandler) checkKafkaConnectivity() (string, error) {
	if err := h.consumer.ConnectivityCheck(); err != nil {
		clientError := "Error verifying open connection to Kafka"
		h.log.WithError(err).Error(clientError)
		return "Error connecting with Kafka", errors.New(clientError)
	}
	return "Successfully connected to Kafka", nil
}
