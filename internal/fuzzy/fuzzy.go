// Package fuzzy ranks names against a free-text query.
package fuzzy

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	sfuzzy "github.com/sahilm/fuzzy"
)

// Exact is the score given to a case-insensitive exact match. It outranks any
// subsequence score.
const Exact = math.MaxInt

var ErrNoMatch = errors.New("no match")

type Match struct {
	Name      string
	Index     int // position in the input slice
	Score     int
	Positions []int // matched byte offsets in Name, for highlighting
}

// Rank scores every name against query and returns the matching ones, best
// first. Names that do not contain query as a subsequence are dropped. An
// empty query matches everything in input order.
func Rank(query string, names []string) []Match {
	if query == "" {
		out := make([]Match, len(names))
		for i, name := range names {
			out[i] = Match{Name: name, Index: i}
		}
		return out
	}
	found := sfuzzy.Find(query, names)
	out := make([]Match, 0, len(found))
	seen := make(map[int]struct{}, len(found))
	for _, m := range found {
		score := m.Score
		if strings.EqualFold(m.Str, query) {
			score = Exact
		}
		seen[m.Index] = struct{}{}
		out = append(out, Match{Name: m.Str, Index: m.Index, Score: score, Positions: m.MatchedIndexes})
	}
	for i, name := range names {
		if _, ok := seen[i]; ok || !strings.EqualFold(name, query) {
			continue
		}
		out = append(out, Match{Name: name, Index: i, Score: Exact})
	}
	slices.SortStableFunc(out, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// Filter returns the names matching query, best first.
func Filter(query string, names []string) []string {
	matches := Rank(query, names)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Name
	}
	return out
}

// Best returns the single best candidate for query.
func Best(query string, names []string) (string, bool) {
	if strings.TrimSpace(query) == "" {
		return "", false
	}
	matches := Rank(query, names)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name, true
}

// Source provides the candidate names for Lookup. Refresh asks the underlying
// engine to update its view (for example by fetching remotes) so the next
// Names call may return more candidates.
type Source interface {
	Names() ([]string, error)
	Refresh() error
}

// Resolver is implemented by sources that can accept a query verbatim when no
// name matches, such as a commit id or revision expression.
type Resolver interface {
	Resolve(query string) bool
}

type Hit struct {
	Name   string
	Direct bool // accepted by Resolver rather than matched against Names
}

// Lookup picks the best name for query. When nothing matches it refreshes the
// source once and retries before failing with ErrNoMatch.
func Lookup(query string, src Source) (Hit, error) {
	for attempt := range 2 {
		names, err := src.Names()
		if err != nil {
			return Hit{}, err
		}
		if name, ok := Best(query, names); ok {
			return Hit{Name: name}, nil
		}
		if r, ok := src.(Resolver); ok && r.Resolve(query) {
			return Hit{Name: query, Direct: true}, nil
		}
		if attempt == 0 {
			slog.Debug("lookup miss, refreshing", slog.String("query", query), slog.Int("candidates", len(names)))
			if err := src.Refresh(); err != nil {
				return Hit{}, fmt.Errorf("refresh: %w", err)
			}
		}
	}
	return Hit{}, fmt.Errorf("%w: %s", ErrNoMatch, query)
}
