package suggest

import (
	"context"
	"slices"
	"sync"

	"github.com/matst80/slask-filters/pkg/types"
)

// Source looks up suggestion candidates for a filter. Implementations may
// be remote and slow, callers cancel through the context.
type Source interface {
	Lookup(ctx context.Context, key, term string) ([]types.Candidate, error)
}

// StaticSource serves fixed candidate lists, typically loaded from disk.
type StaticSource struct {
	mu         sync.RWMutex
	candidates map[string][]types.Candidate
}

func NewStaticSource(candidates map[string][]types.Candidate) *StaticSource {
	if candidates == nil {
		candidates = map[string][]types.Candidate{}
	}
	return &StaticSource{candidates: candidates}
}

func (s *StaticSource) Set(key string, candidates []types.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[key] = slices.Clone(candidates)
}

func (s *StaticSource) Lookup(ctx context.Context, key, _ string) ([]types.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.candidates[key]), nil
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context, key, term string) ([]types.Candidate, error)

func (f SourceFunc) Lookup(ctx context.Context, key, term string) ([]types.Candidate, error) {
	return f(ctx, key, term)
}
