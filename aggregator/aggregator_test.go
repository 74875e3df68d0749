package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	events []RawEvent
	calls  int
}

func (s *stubSource) Fetch() []RawEvent {
	s.calls++

	return s.events
}

func newTestAggregator(t *testing.T, source eventSource, store *SeriesStore) *Aggregator {
	t.Helper()

	return &Aggregator{
		config: WindowConfig{
			MaxPoints:     120,
			Interval:      10,
			CorrectPrefix: "c",
		},
		source:   source,
		store:    store,
		location: lisbon(t),
		logger:   zap.NewNop().Sugar(),
	}
}

func TestTickMergesBatchIntoStore(t *testing.T) {
	loc := lisbon(t)
	store := NewSeriesStore()
	a := newTestAggregator(t, &stubSource{events: scenarioEvents()}, store)

	a.Tick()

	series, _ := store.Snapshot()
	require.Len(t, series, 2)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, loc), series[0].Minute)
	assert.Equal(t, CountPair{Correct: 1, Incorrect: 1}, series[0].Counts)
	assert.Equal(t, CountPair{Correct: 1, Incorrect: 0}, series[1].Counts)

	// A second tick re-reports the same events; counts accumulate.
	a.Tick()

	series, _ = store.Snapshot()
	require.Len(t, series, 2)
	assert.Equal(t, CountPair{Correct: 2, Incorrect: 2}, series[0].Counts)
	assert.Equal(t, CountPair{Correct: 2, Incorrect: 0}, series[1].Counts)
}

func TestTickEmptyFetchLeavesStoreUntouched(t *testing.T) {
	loc := lisbon(t)
	store := NewSeriesStore()

	prior := Series{
		{Minute: time.Date(2025, 1, 1, 10, 0, 0, 0, loc), Counts: CountPair{Correct: 3}},
	}
	store.Replace(prior)
	_, updatedBefore := store.Snapshot()

	a := newTestAggregator(t, &stubSource{}, store)
	a.Tick()

	series, updatedAfter := store.Snapshot()
	assert.Equal(t, prior, series)
	assert.Equal(t, updatedBefore, updatedAfter)
}

func TestTickDropsUnparseableEventsOnly(t *testing.T) {
	store := NewSeriesStore()
	events := append(scenarioEvents(), RawEvent{Value: "Correto", RecvTime: "not-a-date"})

	a := newTestAggregator(t, &stubSource{events: events}, store)
	a.Tick()

	series, _ := store.Snapshot()
	require.Len(t, series, 2)
	assert.Equal(t, CountPair{Correct: 1, Incorrect: 1}, series[0].Counts)
}

func TestNewAggregatorDefaults(t *testing.T) {
	a, err := NewAggregator(Config{}, NewSeriesStore(), zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.Equal(t, "Europe/Lisbon", a.location.String())
	assert.Equal(t, 120, a.config.MaxPoints)
	assert.Equal(t, 10, a.config.Interval)
	assert.Equal(t, "c", a.config.CorrectPrefix)
}

func TestNewAggregatorRejectsUnknownTimezone(t *testing.T) {
	c := Config{Window: WindowConfig{Timezone: "Mars/Olympus_Mons"}}

	_, err := NewAggregator(c, NewSeriesStore(), zap.NewNop().Sugar())
	assert.Error(t, err)
}
