// Package profiler implements the cost model shared by the solver kernel:
// a process-wide, mutex-guarded store of measured execution costs keyed by
// node kind, strategy name, and a coarsened input-size bucket, updated by
// exponential moving average and persisted to a flat JSON file.
package profiler

import (
	"log/slog"
	"os"
	"sync"

	"github.com/goccy/go-json"

	"github.com/Iweisc/ioc/ir"
)

// alpha is the fixed EMA weight applied to each new sample.
const alpha = 0.30

// DefaultPath is the profile file name used when a caller does not name one
// explicitly, matching the CLI's implicit working-directory convention.
const DefaultPath = ".ioc_profile"

// Key identifies one cost-model cell.
type Key struct {
	Kind     ir.Kind
	Strategy string
	Bucket   int
}

// Record is one profiler cell: a smoothed cost estimate in milliseconds and
// the number of samples folded into it.
type Record struct {
	SmoothedMS float64
	Samples    int
}

// entry is the flat, self-describing on-disk shape of one Record — kept
// separate from Record/Key so the in-memory map key type (which is not
// itself JSON-object-safe as a struct) never leaks into the wire format.
type entry struct {
	Kind       ir.Kind `json:"kind"`
	Strategy   string  `json:"strategy"`
	Bucket     int     `json:"bucket"`
	SmoothedMS float64 `json:"smoothed_ms"`
	Samples    int     `json:"sample_count"`
}

// Store is the process-wide cost-model cache. Its zero value is not usable;
// construct with New. A single mutex serializes all reads and writes, as
// permitted for process-wide shared state with infrequent, short critical
// sections.
type Store struct {
	mu      sync.Mutex
	records map[Key]Record
	log     *slog.Logger
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		records: make(map[Key]Record),
		log:     slog.Default(),
	}
}

// BucketSize coarsens a raw size to its profiler bucket: identity below 10,
// then multiples of 10, 100, and 1000 as n grows, capping cache cardinality
// while still generalizing across near-identical workloads.
func BucketSize(n int) int {
	switch {
	case n < 10:
		return n
	case n < 100:
		return 10 * (n / 10)
	case n < 1000:
		return 100 * (n / 100)
	default:
		return 1000 * (n / 1000)
	}
}

// Update folds one new sample into the record for (kind, strategy, n) using
// an exponential moving average with weight alpha on the new sample. The
// very first sample for a key seeds the record outright.
func (s *Store) Update(kind ir.Kind, strategy string, n int, sampleMS float64) {
	key := Key{Kind: kind, Strategy: strategy, Bucket: BucketSize(n)}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		s.records[key] = Record{SmoothedMS: sampleMS, Samples: 1}
		return
	}
	rec.SmoothedMS = (1-alpha)*rec.SmoothedMS + alpha*sampleMS
	rec.Samples++
	s.records[key] = rec
}

// Lookup returns a cost estimate for (kind, strategy, n). An exact bucket
// hit returns its smoothed cost directly. Otherwise, among all records
// sharing (kind, strategy), the bucket numerically closest to n's own
// bucket is linearly extrapolated by scaling its cost by n/bucket. With no
// matching records at all, a hard-coded per-kind default times n is used —
// the profiler is advisory and must never block a compile for lack of data.
func (s *Store) Lookup(kind ir.Kind, strategy string, n int) float64 {
	bucket := BucketSize(n)
	key := Key{Kind: kind, Strategy: strategy, Bucket: bucket}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[key]; ok {
		return rec.SmoothedMS
	}

	found := false
	var bestRec Record
	bestBucket := 0
	bestDist := -1
	for k, rec := range s.records {
		if k.Kind != kind || k.Strategy != strategy {
			continue
		}
		dist := k.Bucket - bucket
		if dist < 0 {
			dist = -dist
		}
		if bestDist == -1 || dist < bestDist {
			bestRec = rec
			bestBucket = k.Bucket
			bestDist = dist
			found = true
		}
	}
	if found {
		if bestBucket == 0 {
			return bestRec.SmoothedMS
		}
		return bestRec.SmoothedMS * float64(n) / float64(bestBucket)
	}

	return defaultCostPerUnit(kind) * float64(n)
}

// defaultCostPerUnit is the hard-coded fallback used when a kind/strategy
// pair has never been measured, mirroring strategy.defaultCost's per-kind
// weighting without importing the strategy package (profiler must stay a
// leaf dependency the solver can import freely).
func defaultCostPerUnit(kind ir.Kind) float64 {
	switch kind {
	case ir.KindReduce:
		return 1.5
	case ir.KindSort, ir.KindGroupBy:
		return 2.0
	case ir.KindJoin:
		return 3.0
	case ir.KindFlatten:
		return 0.5
	case ir.KindDistinct:
		return 1.5
	default:
		return 1.0
	}
}

// Save serializes the store to path as a flat, self-describing sequence of
// records. Write failures are logged and swallowed: profile data is
// advisory, never correctness-critical.
func (s *Store) Save(path string) error {
	if path == "" {
		path = DefaultPath
	}
	s.mu.Lock()
	entries := make([]entry, 0, len(s.records))
	for k, rec := range s.records {
		entries = append(entries, entry{
			Kind:       k.Kind,
			Strategy:   k.Strategy,
			Bucket:     k.Bucket,
			SmoothedMS: rec.SmoothedMS,
			Samples:    rec.Samples,
		})
	}
	s.mu.Unlock()

	data, err := json.Marshal(entries)
	if err != nil {
		s.log.Warn("profiler: marshal failed", "error", err)
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Warn("profiler: write failed", "path", path, "error", err)
		return nil
	}
	return nil
}

// Load reads path into the store, merging with (overwriting) any existing
// in-memory records. A missing, empty, or malformed file is treated as no
// data and never aborts the caller.
func (s *Store) Load(path string) error {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Debug("profiler: read failed, treating as empty", "path", path, "error", err)
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn("profiler: malformed profile file, treating as empty", "path", path, "error", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.records[Key{Kind: e.Kind, Strategy: e.Strategy, Bucket: e.Bucket}] = Record{
			SmoothedMS: e.SmoothedMS,
			Samples:    e.Samples,
		}
	}
	return nil
}

// Len reports how many distinct (kind, strategy, bucket) cells are recorded.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
