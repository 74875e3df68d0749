package aggregator

import (
	"sort"
	"time"
)

// CountPair holds the tally of both outcome categories for one minute
type CountPair struct {
	Correct   int
	Incorrect int
}

// Point is one minute bucket of the merged series
type Point struct {
	Minute time.Time
	Counts CountPair
}

// Series is an ordered window of per-minute counts: strictly ascending
// by minute, unique minutes, at most the configured number of points
type Series []Point

// MinuteOf truncates an instant to its containing minute, keeping the
// zone. Seconds and sub-second fraction are zeroed.
func MinuteOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// Aggregate buckets a batch of raw events into per-minute counts.
// Events whose timestamp cannot be parsed are dropped; the returned
// count tells the caller how many. Only this batch is counted, merging
// with history is done by Merge.
func Aggregate(events []RawEvent, loc *time.Location, correctPrefix string) (map[time.Time]CountPair, int) {
	counts := make(map[time.Time]CountPair)
	dropped := 0

	for _, e := range events {
		instant, err := NormalizeTimestamp(e.RecvTime, loc)
		if err != nil {
			dropped++
			continue
		}

		minute := MinuteOf(instant)
		c := counts[minute]
		if Classify(e.Value, correctPrefix) == Correct {
			c.Correct++
		} else {
			c.Incorrect++
		}
		counts[minute] = c
	}

	return counts, dropped
}

// Merge folds a batch of per-minute counts into the series. Counts for
// a minute that is already present accumulate, never overwrite, since
// consecutive polls re-report overlapping events. The result is sorted
// ascending and trimmed to the last maxPoints minutes, dropping the
// oldest. An empty batch returns the input unchanged.
func Merge(s Series, batch map[time.Time]CountPair, maxPoints int) Series {
	if len(batch) == 0 {
		return s
	}

	merged := make(map[time.Time]CountPair, len(s)+len(batch))
	for _, p := range s {
		merged[p.Minute] = p.Counts
	}

	for minute, counts := range batch {
		c := merged[minute]
		c.Correct += counts.Correct
		c.Incorrect += counts.Incorrect
		merged[minute] = c
	}

	out := make(Series, 0, len(merged))
	for minute, counts := range merged {
		out = append(out, Point{Minute: minute, Counts: counts})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Minute.Before(out[j].Minute)
	})

	if maxPoints > 0 && len(out) > maxPoints {
		out = out[len(out)-maxPoints:]
	}

	return out
}
