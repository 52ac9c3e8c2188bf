package fuzzy

import (
	"errors"
	"slices"
	"testing"
)

func TestRankExactMatchWins(t *testing.T) {
	t.Parallel()

	got := Rank("Main", []string{"main", "develop", "feature-x"})
	if len(got) == 0 {
		t.Fatal("expected at least one match")
	}
	if got[0].Name != "main" || got[0].Score != Exact {
		t.Fatalf("top match = %+v, want exact main", got[0])
	}
	for _, m := range got[1:] {
		if m.Score == Exact {
			t.Fatalf("unexpected second exact match %+v", m)
		}
	}
}

func TestRankExactOutranksFuzzy(t *testing.T) {
	t.Parallel()

	names := []string{"main-feature", "domain", "Main"}
	got := Rank("main", names)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %+v", got)
	}
	if got[0].Name != "Main" {
		t.Fatalf("expected exact match first, got %+v", got)
	}
	if got[0].Index != 2 {
		t.Fatalf("expected index of input slice, got %d", got[0].Index)
	}
}

func TestRankExcludesNonMatches(t *testing.T) {
	t.Parallel()

	got := Filter("zzz", []string{"main", "develop"})
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFilterEmptyQueryKeepsOrder(t *testing.T) {
	t.Parallel()

	names := []string{"b", "a", "c"}
	if got := Filter("", names); !slices.Equal(got, names) {
		t.Fatalf("Filter(\"\") = %v, want %v", got, names)
	}
}

func TestRankPositions(t *testing.T) {
	t.Parallel()

	got := Rank("ft", []string{"feature"})
	if len(got) != 1 {
		t.Fatalf("expected one match, got %+v", got)
	}
	if len(got[0].Positions) != 2 || got[0].Positions[0] != 0 {
		t.Fatalf("unexpected matched positions %v", got[0].Positions)
	}
}

func TestBest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  string
		names  []string
		want   string
		wantOK bool
	}{
		{name: "exact", query: "DEVELOP", names: []string{"dev", "develop"}, want: "develop", wantOK: true},
		{name: "fuzzy", query: "fx", names: []string{"main", "feature-x"}, want: "feature-x", wantOK: true},
		{name: "none", query: "qq", names: []string{"main"}},
		{name: "blank", query: "  ", names: []string{"main"}},
		{name: "empty candidates", query: "main"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Best(tc.query, tc.names)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("Best(%q) = %q, %v; want %q, %v", tc.query, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

type fakeSource struct {
	before, after []string
	refreshed     int
	refreshErr    error
	resolvable    string
}

func (f *fakeSource) Names() ([]string, error) {
	if f.refreshed > 0 {
		return f.after, nil
	}
	return f.before, nil
}

func (f *fakeSource) Refresh() error {
	f.refreshed++
	return f.refreshErr
}

type resolvingSource struct {
	*fakeSource
}

func (r resolvingSource) Resolve(query string) bool {
	return query == r.resolvable
}

func TestLookupLocalHitDoesNotRefresh(t *testing.T) {
	t.Parallel()

	src := &fakeSource{before: []string{"main", "develop"}}
	hit, err := Lookup("dev", src)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if hit.Name != "develop" || hit.Direct {
		t.Fatalf("unexpected hit %+v", hit)
	}
	if src.refreshed != 0 {
		t.Fatalf("expected no refresh, got %d", src.refreshed)
	}
}

func TestLookupRefreshesOnceThenMatches(t *testing.T) {
	t.Parallel()

	src := &fakeSource{before: []string{"main"}, after: []string{"main", "release-2"}}
	hit, err := Lookup("release", src)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if hit.Name != "release-2" {
		t.Fatalf("unexpected hit %+v", hit)
	}
	if src.refreshed != 1 {
		t.Fatalf("expected one refresh, got %d", src.refreshed)
	}
}

func TestLookupNoMatch(t *testing.T) {
	t.Parallel()

	src := &fakeSource{before: []string{"main"}, after: []string{"main"}}
	_, err := Lookup("zzz", src)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if src.refreshed != 1 {
		t.Fatalf("expected exactly one refresh, got %d", src.refreshed)
	}
}

func TestLookupRefreshError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := &fakeSource{before: []string{"main"}, refreshErr: boom}
	_, err := Lookup("zzz", src)
	if !errors.Is(err, boom) {
		t.Fatalf("expected refresh error, got %v", err)
	}
}

func TestLookupResolverFallback(t *testing.T) {
	t.Parallel()

	src := resolvingSource{&fakeSource{before: []string{"main"}, resolvable: "abc1234"}}
	hit, err := Lookup("abc1234", src)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !hit.Direct || hit.Name != "abc1234" {
		t.Fatalf("unexpected hit %+v", hit)
	}
	if src.refreshed != 0 {
		t.Fatalf("resolver hit should not refresh, got %d", src.refreshed)
	}
}
