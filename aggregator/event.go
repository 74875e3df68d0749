package aggregator

// RawEvent represents a single answer sample returned by STH: the
// outcome label and the upstream receive timestamp, still unparsed
type RawEvent struct {
	Value    string
	RecvTime string
}
