// Package index builds the per-dimension inverted indices, display-name maps
// and aggregate metadata for one record kind.
package index

import (
	"crypto/rand"
	"slices"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Postings maps dimension → value → record IDs
type Postings map[string]map[string][]string

// DisplayMaps maps dimension → value → human-readable name
type DisplayMaps map[string]map[string]string

// Metadata is the aggregate summary of one section
type Metadata struct {
	TotalCount int            `json:"totalCount"`
	LastBuilt  string         `json:"lastBuilt"`
	BuildID    string         `json:"buildId"`
	Categories map[string]int `json:"categories"`
}

// Index is the finalized output for one record kind
type Index struct {
	Indices     Postings    `json:"indices"`
	DisplayMaps DisplayMaps `json:"displayMaps"`
	Metadata    Metadata    `json:"metadata"`
}

// BuildInfo identifies one build run
type BuildInfo struct {
	ID string
	At time.Time
}

// NewBuildInfo stamps a build with a ULID taken at t
func NewBuildInfo(t time.Time) BuildInfo {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return BuildInfo{
		ID: ulid.MustNew(ulid.Timestamp(t), entropy).String(),
		At: t.UTC(),
	}
}

// Options configures a Set
type Options struct {
	Chapters map[string]string // chapter code → chapter name
	Logger   *zap.Logger
}

// Set accumulates postings for one record kind. Build is a fold of Add over
// the records; Merge combines sets built over disjoint partitions.
type Set struct {
	kind       record.Kind
	dims       []string
	known      map[string]bool
	postings   Postings
	display    DisplayMaps
	categories map[string]int
	total      int
	namer      Namer
	log        *zap.Logger
}

// NewSet creates an empty set for a kind
func NewSet(kind record.Kind, opts Options) *Set {
	s := &Set{
		kind:       kind,
		dims:       record.Dimensions(kind),
		known:      make(map[string]bool),
		postings:   make(Postings),
		display:    make(DisplayMaps),
		categories: make(map[string]int),
		namer:      NewNamer(opts.Chapters),
		log:        opts.Logger,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	for _, dim := range s.dims {
		s.known[dim] = true
		s.postings[dim] = make(map[string][]string)
		s.display[dim] = make(map[string]string)
	}
	return s
}

// Add indexes one record. Values repeated within the record are posted
// once. Dimensions outside the kind's set are logged and skipped.
func (s *Set) Add(r record.Record) {
	s.total++
	s.categories[record.DifficultyOf(r)]++

	tags := r.TagValues()
	for _, dim := range unknownDims(tags, s.known) {
		s.log.Warn("skipping unknown dimension",
			zap.String("kind", string(s.kind)),
			zap.String("id", r.RecordID()),
			zap.String("dimension", dim),
			zap.Error(internalerr.ErrUnknownDimension))
	}

	for _, dim := range s.dims {
		seen := make(map[string]bool)
		for _, v := range tags[dim] {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			s.postings[dim][v] = append(s.postings[dim][v], r.RecordID())
			if _, named := s.display[dim][v]; !named {
				s.display[dim][v] = s.namer.Name(dim, v)
			}
		}
	}
}

// Merge folds another set of the same kind into s. Display names already
// present in s win.
func (s *Set) Merge(other *Set) {
	s.total += other.total
	for k, n := range other.categories {
		s.categories[k] += n
	}
	for _, dim := range s.dims {
		for v, ids := range other.postings[dim] {
			s.postings[dim][v] = append(s.postings[dim][v], ids...)
		}
		for v, name := range other.display[dim] {
			if _, named := s.display[dim][v]; !named {
				s.display[dim][v] = name
			}
		}
	}
}

// Finalize returns the index with every posting list sorted by ID
func (s *Set) Finalize(info BuildInfo) Index {
	idx := Index{
		Indices:     make(Postings, len(s.postings)),
		DisplayMaps: make(DisplayMaps, len(s.display)),
		Metadata: Metadata{
			TotalCount: s.total,
			LastBuilt:  info.At.UTC().Format(time.RFC3339),
			BuildID:    info.ID,
			Categories: make(map[string]int, len(s.categories)),
		},
	}

	for dim, values := range s.postings {
		out := make(map[string][]string, len(values))
		for v, ids := range values {
			sorted := slices.Clone(ids)
			slices.Sort(sorted)
			out[v] = slices.Compact(sorted)
		}
		idx.Indices[dim] = out
	}
	for dim, names := range s.display {
		out := make(map[string]string, len(names))
		for v, name := range names {
			out[v] = name
		}
		idx.DisplayMaps[dim] = out
	}
	for k, n := range s.categories {
		idx.Metadata.Categories[k] = n
	}
	return idx
}

// Build folds Add over records and finalizes the result
func Build[R record.Record](kind record.Kind, records []R, info BuildInfo, opts Options) Index {
	s := NewSet(kind, opts)
	for _, r := range records {
		s.Add(r)
	}
	return s.Finalize(info)
}

func unknownDims(tags map[string][]string, known map[string]bool) []string {
	var out []string
	for dim := range tags {
		if !known[dim] {
			out = append(out, dim)
		}
	}
	sort.Strings(out)
	return out
}
