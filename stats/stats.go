package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
)

// CountingHandler wraps a slog.Handler and counts warning-level records so
// the end of the run can tell the user how many fields or entries were
// skipped and point them at the log file for manual recovery.
type CountingHandler struct {
	inner slog.Handler
	warns *atomic.Int64
}

// NewCountingHandler wraps inner. Handlers derived with WithAttrs/WithGroup
// share the same counter.
func NewCountingHandler(inner slog.Handler) *CountingHandler {
	return &CountingHandler{inner: inner, warns: new(atomic.Int64)}
}

func (h *CountingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CountingHandler) Handle(ctx context.Context, rec slog.Record) error {
	if rec.Level >= slog.LevelWarn {
		h.warns.Add(1)
	}
	return h.inner.Handle(ctx, rec)
}

func (h *CountingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CountingHandler{inner: h.inner.WithAttrs(attrs), warns: h.warns}
}

func (h *CountingHandler) WithGroup(name string) slog.Handler {
	return &CountingHandler{inner: h.inner.WithGroup(name), warns: h.warns}
}

// Warnings returns the number of warning records handled so far.
func (h *CountingHandler) Warnings() int {
	return int(h.warns.Load())
}

// Counter tallies the values seen for a set of headers while scanning an
// archive.
type Counter map[string]map[string]int

// NewCounter prepares a counter for the given header names.
func NewCounter(headers ...string) Counter {
	c := make(Counter, len(headers))
	for _, h := range headers {
		c[h] = make(map[string]int)
	}
	return c
}

// Observe records one occurrence of value under header. Empty values and
// untracked headers are ignored.
func (c Counter) Observe(header, value string) {
	if value == "" {
		return
	}
	if counts, ok := c[header]; ok {
		counts[value]++
	}
}

// Pair is one counted value with its occurrence count.
type Pair struct {
	Key   string
	Count int
}

// Top returns the limit most frequent values for header, most frequent
// first; ties break alphabetically so the order is stable.
func (c Counter) Top(header string, limit int) []Pair {
	counts := c[header]

	pairs := make([]Pair, 0, len(counts))
	for k, v := range counts {
		pairs = append(pairs, Pair{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Key < pairs[j].Key
	})

	if limit < len(pairs) {
		pairs = pairs[:limit]
	}
	return pairs
}

// PrettyPrintTop prints the top N most frequent items in a map.
func PrettyPrintTop(m map[string]int, limit int) {
	type pair struct {
		Key   string
		Value int
	}

	var pairs []pair
	for k, v := range m {
		pairs = append(pairs, pair{k, v})
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Value > pairs[j].Value
	})

	for i := 0; i < limit && i < len(pairs); i++ {
		fmt.Printf("%d. %s (%d)\n", i+1, pairs[i].Key, pairs[i].Value)
	}
}
