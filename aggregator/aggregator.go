package aggregator

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config is the main configuration
type Config struct {
	Env    string       `yaml:"env"`
	STH    STHConfig    `yaml:"sth"`
	Window WindowConfig `yaml:"window"`
	HTTP   HTTPConfig   `yaml:"http"`
}

// WindowConfig represents the config of the aggregation window
type WindowConfig struct {
	Timezone      string `yaml:"timezone"`
	MaxPoints     int    `yaml:"max_points"`
	Interval      int    `yaml:"interval"` // seconds between polls
	CorrectPrefix string `yaml:"correct_prefix"`
}

// An eventSource yields the raw events of one poll
type eventSource interface {
	Fetch() []RawEvent
}

// Aggregator polls the source on a fixed interval and folds each batch
// of answers into the series window
type Aggregator struct {
	config   WindowConfig
	source   eventSource
	store    *SeriesStore
	location *time.Location
	logger   *zap.SugaredLogger
}

// Run polls until the WaitGroup is released. Ticks are sequential: a
// slow fetch delays the next tick rather than overlapping it.
func (a *Aggregator) Run(wg *sync.WaitGroup) {
	interval := time.Duration(a.config.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Infof("aggregator: polling every %s", interval)

	go func() {
		for range ticker.C {
			a.Tick()
		}
	}()

	wg.Wait()
}

// Tick runs one fetch, aggregate and merge cycle. All failures are
// contained here: on an empty batch the stored series stays as-is.
func (a *Aggregator) Tick() {
	events := a.source.Fetch()
	if len(events) == 0 {
		return
	}

	batch, dropped := Aggregate(events, a.location, a.config.CorrectPrefix)
	if dropped > 0 {
		a.logger.Warnf("aggregator: dropped %d events with unparseable timestamps", dropped)
	}

	series, _ := a.store.Snapshot()
	a.store.Replace(Merge(series, batch, a.config.MaxPoints))

	a.logger.Debugf("aggregator: merged %d events into %d minute buckets", len(events), len(batch))
}

// NewAggregator creates a new Aggregator
func NewAggregator(config Config, store *SeriesStore, logger *zap.SugaredLogger) (*Aggregator, error) {
	w := config.Window
	if w.Timezone == "" {
		w.Timezone = "Europe/Lisbon"
	}
	if w.MaxPoints <= 0 {
		w.MaxPoints = 120
	}
	if w.Interval <= 0 {
		w.Interval = 10
	}
	if w.CorrectPrefix == "" {
		w.CorrectPrefix = "c"
	}

	location, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return nil, fmt.Errorf("Aggregator: %v", err)
	}

	return &Aggregator{
		config:   w,
		source:   NewFetcher(config.STH, logger),
		store:    store,
		location: location,
		logger:   logger,
	}, nil
}
