/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package logtest provides a log.FieldLogger that keeps logged entries in memory for assertions in tests.
package logtest

import (
	"sync"
	"time"

	"github.com/ssgreg/logf"

	"github.com/pbougue/utils/log"
)

// RecordedEntry is a logged entry with all fields of the logger it was written by.
type RecordedEntry struct {
	LoggerName string
	Fields     []log.Field
	Level      log.Level
	Time       time.Time
	Text       string
}

// FindField returns the first field with the key.
func (re *RecordedEntry) FindField(key string) (*log.Field, bool) {
	for i := range re.Fields {
		if re.Fields[i].Key == key {
			return &re.Fields[i], true
		}
	}
	return nil, false
}

// journal is shared by a Recorder and all loggers derived from it.
type journal struct {
	mu      sync.Mutex
	entries []RecordedEntry
}

//nolint:gocritic // signature is defined by logf.EntryWriter
func (j *journal) WriteEntry(e logf.Entry) {
	fields := make([]log.Field, 0, len(e.Fields)+len(e.DerivedFields))
	fields = append(append(fields, e.Fields...), e.DerivedFields...)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, RecordedEntry{
		LoggerName: e.LoggerName,
		Fields:     fields,
		Level:      log.LevelFromLogf(e.Level),
		Time:       e.Time,
		Text:       e.Text,
	})
}

func (j *journal) filter(match func(*RecordedEntry) bool) []RecordedEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	var res []RecordedEntry
	for i := range j.entries {
		if match(&j.entries[i]) {
			res = append(res, j.entries[i])
		}
	}
	return res
}

// Recorder is a log.FieldLogger that records entries of all levels.
// Loggers returned by With and WithLevel write to the same Recorder.
type Recorder struct {
	*log.LogfAdapter
	journal *journal
}

var _ log.FieldLogger = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	j := &journal{}
	return &Recorder{LogfAdapter: &log.LogfAdapter{Logger: logf.NewLogger(logf.LevelDebug, j)}, journal: j}
}

// With returns a Recorder that adds fs to every entry.
func (r *Recorder) With(fs ...log.Field) log.FieldLogger {
	return &Recorder{LogfAdapter: r.LogfAdapter.With(fs...).(*log.LogfAdapter), journal: r.journal}
}

// WithLevel returns a Recorder that drops entries below level.
func (r *Recorder) WithLevel(level log.Level) log.FieldLogger {
	return &Recorder{LogfAdapter: r.LogfAdapter.WithLevel(level).(*log.LogfAdapter), journal: r.journal}
}

// Entries returns a copy of all recorded entries.
func (r *Recorder) Entries() []RecordedEntry {
	return r.journal.filter(func(*RecordedEntry) bool { return true })
}

// FindEntry returns the first entry with the message.
func (r *Recorder) FindEntry(msg string) (RecordedEntry, bool) {
	if found := r.FindAllEntries(msg); len(found) != 0 {
		return found[0], true
	}
	return RecordedEntry{}, false
}

// FindAllEntries returns entries with the message in the order they were logged.
func (r *Recorder) FindAllEntries(msg string) []RecordedEntry {
	return r.journal.filter(func(e *RecordedEntry) bool { return e.Text == msg })
}

// Reset drops all recorded entries.
func (r *Recorder) Reset() {
	r.journal.mu.Lock()
	r.journal.entries = nil
	r.journal.mu.Unlock()
}
