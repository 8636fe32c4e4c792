package main

import (
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/Financial-Times/kafka-client-go/v4"
	"github.com/Financial-Times/syntax-thesaurus/display"
	"github.com/Financial-Times/syntax-thesaurus/thesaurus"
	"github.com/Financial-Times/syntax-thesaurus/web"
	"github.com/gorilla/mux"
	cli "github.com/jawher/mow.cli"
)

const appDescription = "Reference and comparison site for programming language syntax, backed by the JSON thesaurus store"

func main() {
	app := cli.App("syntax-thesaurus", appDescription)

	appSystemCode := app.String(cli.StringOpt{
		Name:   "app-system-code",
		Value:  "syntax-thesaurus",
		Desc:   "System Code of the application",
		EnvVar: "APP_SYSTEM_CODE",
	})
	appName := app.String(cli.StringOpt{
		Name:   "app-name",
		Value:  "Syntax Thesaurus",
		Desc:   "Application name",
		EnvVar: "APP_NAME",
	})
	port := app.String(cli.StringOpt{
		Name:   "port",
		Value:  "8080",
		Desc:   "Port to listen on",
		EnvVar: "APP_PORT",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "logLevel",
		Value:  "INFO",
		Desc:   "Log level",
		EnvVar: "LOG_LEVEL",
	})
	thesaurusPath := app.String(cli.StringOpt{
		Name:   "thesaurusPath",
		Value:  "thesauruses",
		Desc:   "Directory holding meta_info.json, _meta/ and one directory per language",
		EnvVar: "THESAURUS_PATH",
	})
	highlightStyle := app.String(cli.StringOpt{
		Name:   "highlightStyle",
		Value:  display.DefaultStyle,
		Desc:   "Chroma style used for syntax highlighting",
		EnvVar: "HIGHLIGHT_STYLE",
	})
	kafkaAddress := app.String(cli.StringOpt{
		Name:   "kafkaAddress",
		Value:  "",
		Desc:   "Address used to connect to Kafka; leave empty to disable update notifications",
		EnvVar: "KAFKA_ADDR",
	})
	topic := app.String(cli.StringOpt{
		Name:   "topic",
		Value:  "ThesaurusUpdated",
		Desc:   "Kafka topic announcing thesaurus updates",
		EnvVar: "KAFKA_TOPIC",
	})
	groupName := app.String(cli.StringOpt{
		Name:   "groupName",
		Value:  "SyntaxThesaurus",
		Desc:   "Group name of connection to the Kafka topic",
		EnvVar: "GROUP_NAME",
	})
	consumerLagTolerance := app.Int(cli.IntOpt{
		Name:   "consumerLagTolerance",
		Value:  120,
		Desc:   "Kafka lag tolerance",
		EnvVar: "KAFKA_LAG_TOLERANCE",
	})

	app.Command("tree", "Print the categories and concepts of a structure", func(cmd *cli.Cmd) {
		cmd.Spec = "[--lang] CONCEPT"
		concept := cmd.StringArg("CONCEPT", "", "Structure key or friendly name, e.g. loops")
		lang := cmd.StringOpt("lang", "", "Mark each concept with its state in this language")

		cmd.Action = func() {
			log := logger.NewUPPLogger(*appName, *logLevel)
			if err := printTree(os.Stdout, *thesaurusPath, *concept, *lang); err != nil {
				log.WithError(err).Error("Could not print structure tree")
				cli.Exit(1)
			}
		}
	})

	app.Action = func() {
		log := logger.NewUPPLogger(*appName, *logLevel)
		log.WithFields(map[string]interface{}{
			"THESAURUS_PATH": *thesaurusPath,
			"KAFKA_ADDRESS":  *kafkaAddress,
			"KAFKA_TOPIC":    *topic,
		}).Infof("[Startup] %s is starting", *appName)

		log.Infof("System code: %s, App Name: %s, Port: %s", *appSystemCode, *appName, *port)

		registry, err := thesaurus.NewRegistry(*thesaurusPath, log)
		if err != nil {
			log.WithError(err).Fatal("Unable to load thesaurus")
		}
		highlighter := display.NewHighlighter(*highlightStyle)

		var consumer *kafka.Consumer
		var handler *web.ThesaurusHandler
		if *kafkaAddress != "" {
			consumerConfig := kafka.ConsumerConfig{
				BrokersConnectionString: *kafkaAddress,
				ConsumerGroup:           *groupName,
			}
			topics := []*kafka.Topic{
				kafka.NewTopic(*topic, kafka.WithLagTolerance(int64(*consumerLagTolerance))),
			}
			consumer, err = kafka.NewConsumer(consumerConfig, topics, log)
			if err != nil {
				log.WithError(err).Fatal("Unable to create Kafka consumer")
			}
			handler, err = web.NewHandler(registry, highlighter, consumer, log)
		} else {
			handler, err = web.NewHandler(registry, highlighter, nil, log)
		}
		if err != nil {
			log.WithError(err).Fatal("Unable to create handlers")
		}

		router := mux.NewRouter()
		handler.RegisterHandlers(router)
		handler.RegisterAdminHandlers(http.DefaultServeMux, router, *appSystemCode, *appName, appDescription)

		go func() {
			if err := http.ListenAndServe(":"+*port, nil); err != nil {
				log.WithError(err).Fatal("Unable to start server")
			}
		}()

		if consumer != nil {
			go consumer.Start(handler.ProcessKafkaMessage)
			defer func(consumer *kafka.Consumer) {
				log.Info("Shutting down Kafka consumer")
				err := consumer.Close()
				if err != nil {
					log.WithError(err).Error("Could not close kafka consumer")
				}
			}(consumer)
		}

		waitForSignal()
		log.Info("Stopping application")
	}

	if runErr := app.Run(os.Args); runErr != nil {
		logger.NewUPPLogger(*appName, *logLevel).Errorf("App could not start, error=[%s]\n", runErr)
		return
	}
}

func printTree(w io.Writer, root string, concept string, langKey string) error {
	meta, err := thesaurus.LoadMetaInfo(root)
	if err != nil {
		return err
	}
	structure, err := meta.Structure(concept)
	if err != nil {
		return err
	}
	var lang *thesaurus.Language
	if langKey != "" {
		lang = thesaurus.NewLanguage(root, langKey)
		if err := lang.Load(structure.Key); err != nil {
			return err
		}
	}
	return display.WriteTree(w, structure, lang)
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}
