package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matst80/slask-filters/pkg/types"
)

const (
	wordStartScore = 2
	containsScore  = 1
)

type RankOptions struct {
	// Exclude suppresses candidates by value.
	Exclude []string
	// Limit caps the result, zero or less means no cap.
	Limit int
}

type scored struct {
	candidate types.Candidate
	score     int
	position  int
}

// tokenScore returns 2 when token starts a word in text, 1 when it occurs
// anywhere else and 0 when it is missing.
func tokenScore(text string, token Token) int {
	needle := string(token)
	best := 0
	offset := 0
	for offset <= len(text) {
		idx := strings.Index(text[offset:], needle)
		if idx == -1 {
			break
		}
		at := offset + idx
		if at == 0 {
			return wordStartScore
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:at])
		if unicode.IsSpace(prev) {
			return wordStartScore
		}
		best = containsScore
		_, size := utf8.DecodeRuneInString(text[at:])
		offset = at + max(size, 1)
	}
	return best
}

// Score sums the per token score of the normalized candidate text.
func Score(text string, tokens []Token) int {
	total := 0
	for _, token := range tokens {
		total += tokenScore(text, token)
	}
	return total
}

func compareSort(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}

// Rank scores the candidates against the query and returns the matching ones
// ordered by score. Ties are ordered by ascending Sort, candidates without a
// Sort value go after those that have one and otherwise keep their input
// order. The input slice is never modified.
func Rank(candidates []types.Candidate, query string, opts RankOptions) []types.Candidate {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []types.Candidate{}
	}
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, value := range opts.Exclude {
		excluded[value] = struct{}{}
	}

	matches := make([]scored, 0, len(candidates))
	for i, candidate := range candidates {
		if _, skip := excluded[candidate.Value]; skip {
			continue
		}
		score := Score(Normalize(candidate.DisplayText()), tokens)
		if score == 0 {
			continue
		}
		matches = append(matches, scored{candidate: candidate, score: score, position: i})
	}

	slices.SortStableFunc(matches, func(a, b scored) int {
		if a.score != b.score {
			return cmp.Compare(b.score, a.score)
		}
		if c := compareSort(a.candidate.Sort, b.candidate.Sort); c != 0 {
			return c
		}
		return cmp.Compare(a.position, b.position)
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	ret := make([]types.Candidate, len(matches))
	for i, match := range matches {
		ret[i] = match.candidate
	}
	return ret
}
