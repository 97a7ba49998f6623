// Package query answers lookups over a loaded artifact.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/examdex/pkg/examdex/artifact"
	"github.com/cognicore/examdex/pkg/examdex/index"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/markdown"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Filter selects records carrying any of Values in Dimension
type Filter struct {
	Dimension string
	Values    []string
}

// Summary describes one value of a dimension
type Summary struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Navigation locates an item within an ordered list
type Navigation[R record.Record] struct {
	Current  *R
	Previous *R
	Next     *R
	Index    int
	Total    int
}

// CanGoPrevious reports whether a previous item exists
func (n Navigation[R]) CanGoPrevious() bool { return n.Previous != nil }

// CanGoNext reports whether a next item exists
func (n Navigation[R]) CanGoNext() bool { return n.Next != nil }

// Statistics aggregates one section
type Statistics struct {
	Total        int            `json:"total"`
	ByDifficulty map[string]int `json:"byDifficulty"`
	ByChapter    map[string]int `json:"byChapter"`
}

// Engine serves read-only queries over one section. Safe for concurrent use.
type Engine[R record.Record] struct {
	kind     record.Kind
	records  []R
	position map[string]int
	indices  index.Postings
	display  index.DisplayMaps
	meta     index.Metadata
	text     []string // lowercased plain text per record
}

// NewEngine builds an engine over a section. The section must not be
// modified afterwards.
func NewEngine[R record.Record](kind record.Kind, sec artifact.Section[R]) *Engine[R] {
	e := &Engine[R]{
		kind:     kind,
		records:  sec.Records,
		position: make(map[string]int, len(sec.Records)),
		indices:  sec.Indices,
		display:  sec.DisplayMaps,
		meta:     sec.Metadata,
		text:     make([]string, len(sec.Records)),
	}
	if e.indices == nil {
		e.indices = index.Postings{}
	}
	if e.display == nil {
		e.display = index.DisplayMaps{}
	}

	for i, r := range sec.Records {
		e.position[r.RecordID()] = i

		fields := r.SearchFields()
		plain := make([]string, 0, len(fields))
		for _, f := range fields {
			if f = markdown.PlainText(f); f != "" {
				plain = append(plain, f)
			}
		}
		e.text[i] = strings.ToLower(strings.Join(plain, "\n"))
	}
	return e
}

// Kind returns the record kind served
func (e *Engine[R]) Kind() record.Kind { return e.kind }

// Len returns the number of records
func (e *Engine[R]) Len() int { return len(e.records) }

// All returns every record in artifact order
func (e *Engine[R]) All() []R {
	out := make([]R, len(e.records))
	copy(out, e.records)
	return out
}

// ByID returns one record
func (e *Engine[R]) ByID(id string) (R, error) {
	i, ok := e.position[id]
	if !ok {
		var zero R
		return zero, fmt.Errorf("%w: %s %s", internalerr.ErrNotFound, e.kind, id)
	}
	return e.records[i], nil
}

// ByDimension returns the records posted under dim=value. Unknown
// dimensions and values yield an empty result.
func (e *Engine[R]) ByDimension(dim, value string) []R {
	return e.collect(e.indices[dim][value])
}

// ByFilters intersects the per-filter unions. Filters without values are
// skipped; when no filter remains the result is empty.
func (e *Engine[R]) ByFilters(filters ...Filter) []R {
	var acc map[string]bool
	applied := 0

	for _, f := range filters {
		if len(f.Values) == 0 {
			continue
		}

		union := make(map[string]bool)
		for _, v := range f.Values {
			for _, id := range e.indices[f.Dimension][v] {
				union[id] = true
			}
		}

		if applied == 0 {
			acc = union
		} else {
			for id := range acc {
				if !union[id] {
					delete(acc, id)
				}
			}
		}
		applied++

		if len(acc) == 0 {
			return []R{}
		}
	}

	if applied == 0 {
		return []R{}
	}
	ids := make([]string, 0, len(acc))
	for id := range acc {
		ids = append(ids, id)
	}
	return e.collect(ids)
}

// Search matches q case-insensitively against each record's title, content
// and keyword-like tags. A blank query matches nothing.
func (e *Engine[R]) Search(q string) []R {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return []R{}
	}

	out := []R{}
	for i, text := range e.text {
		if strings.Contains(text, q) {
			out = append(out, e.records[i])
		}
	}
	return out
}

// Summaries lists every value of dim with its display name and record
// count, sorted by key.
func (e *Engine[R]) Summaries(dim string) []Summary {
	values := e.indices[dim]
	out := make([]Summary, 0, len(values))
	for key, ids := range values {
		out = append(out, Summary{
			Key:   key,
			Name:  e.DisplayName(dim, key),
			Count: len(ids),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DisplayName returns the stored display name, or the value itself
func (e *Engine[R]) DisplayName(dim, value string) string {
	if name := e.display[dim][value]; name != "" {
		return name
	}
	return value
}

// ByChapter returns the records of a chapter. With includeSub, records of
// sub-chapters keyed "<chapter>-..." are included too.
func (e *Engine[R]) ByChapter(chapter string, includeSub bool) []R {
	chapters := e.indices[record.DimChapters]
	if !includeSub {
		return e.collect(chapters[chapter])
	}

	prefix := chapter + "-"
	seen := make(map[string]bool)
	var ids []string
	for key, posted := range chapters {
		if key != chapter && !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, id := range posted {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return e.collect(ids)
}

// Navigate positions i within the records of dim=value. An index out of
// range yields only the total.
func (e *Engine[R]) Navigate(dim, value string, i int) Navigation[R] {
	items := e.ByDimension(dim, value)
	nav := Navigation[R]{Index: i, Total: len(items)}

	if i < 0 || i >= len(items) {
		return nav
	}
	nav.Current = &items[i]
	if i > 0 {
		nav.Previous = &items[i-1]
	}
	if i+1 < len(items) {
		nav.Next = &items[i+1]
	}
	return nav
}

// Statistics returns totals by difficulty and chapter
func (e *Engine[R]) Statistics() Statistics {
	st := Statistics{
		Total:        len(e.records),
		ByDifficulty: make(map[string]int, len(e.meta.Categories)),
		ByChapter:    make(map[string]int),
	}
	for k, n := range e.meta.Categories {
		st.ByDifficulty[k] = n
	}
	for key, ids := range e.indices[record.DimChapters] {
		st.ByChapter[key] = len(ids)
	}
	return st
}

// Metadata returns the section metadata
func (e *Engine[R]) Metadata() index.Metadata {
	md := e.meta
	md.Categories = make(map[string]int, len(e.meta.Categories))
	for k, n := range e.meta.Categories {
		md.Categories[k] = n
	}
	return md
}

// collect resolves IDs to records in artifact order, dropping IDs with no
// record.
func (e *Engine[R]) collect(ids []string) []R {
	positions := make([]int, 0, len(ids))
	for _, id := range ids {
		if i, ok := e.position[id]; ok {
			positions = append(positions, i)
		}
	}
	sort.Ints(positions)

	out := make([]R, len(positions))
	for j, i := range positions {
		out[j] = e.records[i]
	}
	return out
}
