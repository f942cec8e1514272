package suggest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matst80/slask-filters/pkg/filter"
	"github.com/matst80/slask-filters/pkg/search"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrStale is returned when a newer lookup for the same filter was started
// before this one completed.
var ErrStale = errors.New("suggestion superseded by newer request")

var (
	noSuggests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_suggest_total",
		Help: "The total number of suggestion lists served",
	})
	noStaleSuggests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_suggest_stale_total",
		Help: "The total number of suggestion lookups dropped as stale",
	})
	lookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slaskfilters_suggest_lookup_seconds",
		Help:    "Duration of suggestion source lookups",
		Buckets: prometheus.DefBuckets,
	})
)

type Options struct {
	// Exclude holds values that are already selected.
	Exclude []string
	Limit   int
	// SearchText prepends the quoted term as a free text item.
	SearchText bool
}

// OptionsFor builds options from the current state of a set filter.
func OptionsFor(f *filter.SetFilter, limit int) Options {
	return Options{
		Exclude:    types.ItemValues(f.Items()),
		Limit:      limit,
		SearchText: f.AllowSearchText() && !f.HasSearchText(),
	}
}

type lookup struct {
	generation uint64
	cancel     context.CancelFunc
}

// Suggester runs lookups against a source and ranks the result. Only the
// latest lookup per filter key delivers results, starting a new one cancels
// the one in flight.
type Suggester struct {
	source     Source
	mu         sync.Mutex
	generation uint64
	inflight   map[string]lookup
}

func NewSuggester(source Source) *Suggester {
	return &Suggester{
		source:   source,
		inflight: map[string]lookup{},
	}
}

func (s *Suggester) begin(ctx context.Context, key string) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if previous, ok := s.inflight[key]; ok {
		previous.cancel()
	}
	s.generation++
	lookupCtx, cancel := context.WithCancel(ctx)
	s.inflight[key] = lookup{generation: s.generation, cancel: cancel}
	return lookupCtx, s.generation
}

// finish reports whether the generation is still the latest for the key.
func (s *Suggester) finish(key string, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.inflight[key]
	if !ok || current.generation != generation {
		return false
	}
	current.cancel()
	delete(s.inflight, key)
	return true
}

func (s *Suggester) Suggest(ctx context.Context, key, term string, opts Options) ([]types.Candidate, error) {
	lookupCtx, generation := s.begin(ctx, key)
	start := time.Now()
	candidates, err := s.source.Lookup(lookupCtx, key, term)
	lookupDuration.Observe(time.Since(start).Seconds())
	if !s.finish(key, generation) {
		noStaleSuggests.Inc()
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	noSuggests.Inc()
	return Rank(candidates, term, opts), nil
}

// Rank orders the candidates for the term. An empty term lists the
// candidates in source order.
func Rank(candidates []types.Candidate, term string, opts Options) []types.Candidate {
	var ranked []types.Candidate
	if len(search.Tokenize(term)) == 0 {
		ranked = unranked(candidates, opts)
	} else {
		ranked = search.Rank(candidates, term, search.RankOptions{
			Exclude: opts.Exclude,
			Limit:   opts.Limit,
		})
	}
	if opts.SearchText && term != "" {
		item := filter.SearchText(term)
		ranked = append([]types.Candidate{{Value: item.Value}}, ranked...)
	}
	return ranked
}

func unranked(candidates []types.Candidate, opts Options) []types.Candidate {
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, value := range opts.Exclude {
		excluded[value] = struct{}{}
	}
	ret := make([]types.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if opts.Limit > 0 && len(ret) >= opts.Limit {
			break
		}
		if _, skip := excluded[candidate.Value]; !skip {
			ret = append(ret, candidate)
		}
	}
	return ret
}
