package domain

import "sort"

// Log is an in-memory weight log holding at most one entry per
// calendar day. It is not safe for concurrent use; owners serialize
// access.
type Log struct {
	entries map[string]Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{entries: make(map[string]Entry)}
}

// FromEntries builds a log from a batch of entries. A later entry for
// an already-seen day replaces the earlier one, same as repeated
// InsertOrReplace calls.
func FromEntries(entries []Entry) *Log {
	l := NewLog()
	for _, e := range entries {
		l.InsertOrReplace(e)
	}
	return l
}

// InsertOrReplace stores e under its day and returns the entry it
// displaced, if any.
func (l *Log) InsertOrReplace(e Entry) (Entry, bool) {
	prev, ok := l.entries[e.Day]
	l.entries[e.Day] = e
	return prev, ok
}

// Delete removes the entry for day and reports whether one was there.
// Deleting an absent day is a no-op.
func (l *Log) Delete(day string) bool {
	if _, ok := l.entries[day]; !ok {
		return false
	}
	delete(l.entries, day)
	return true
}

// Get returns the entry recorded for day.
func (l *Log) Get(day string) (Entry, bool) {
	e, ok := l.entries[day]
	return e, ok
}

// Len returns the number of recorded days.
func (l *Log) Len() int {
	return len(l.entries)
}

// IsEmpty reports whether the log has no entries.
func (l *Log) IsEmpty() bool {
	return len(l.entries) == 0
}

// Ordered returns the entries sorted by day, oldest first.
func (l *Log) Ordered() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
