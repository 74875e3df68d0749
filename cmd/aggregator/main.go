package main

import (
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/raymondelooff/sth-answer-aggregator/aggregator"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("error: config file location not specified")
	}

	f, err := ioutil.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	c := aggregator.Config{}
	err = yaml.Unmarshal(f, &c)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	// Set up logger
	var logger *zap.Logger
	if c.Env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Set up aggregator
	store := aggregator.NewSeriesStore()

	a, err := aggregator.NewAggregator(c, store, sugar)
	if err != nil {
		sugar.Fatalf("error: %v", err)
	}

	// Serve the chart API next to the poll loop
	api := aggregator.NewAPI(store, sugar)
	addr := c.HTTP.Addr
	if addr == "" {
		addr = ":8050"
	}

	go func() {
		logged := handlers.LoggingHandler(os.Stdout, api.Router())

		sugar.Infof("api: listening on %s", addr)
		if err := http.ListenAndServe(addr, logged); err != nil {
			sugar.Fatalf("api: %s", err)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		exit := make(chan os.Signal, 1)
		signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)

		<-exit

		sugar.Info("aggregator: shutting down")
		wg.Done()
	}()

	a.Run(&wg)
	sugar.Info("aggregator: shutdown OK")
}
