package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thiagokokada/gx-go/internal/fuzzy"
	"github.com/thiagokokada/gx-go/internal/git"
	"github.com/thiagokokada/gx-go/internal/tui"
)

type fakeEngine struct {
	log        *git.LogGraph
	branches   []string
	fetched    []string // branches that appear after Fetch
	commits    map[string]string
	fetchCalls int
	switched   []string
	detached   []string
	err        error
}

func (f *fakeEngine) RepoPath() string { return "/repo" }

func (f *fakeEngine) LoadLog(string, int) (*git.LogGraph, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.log == nil {
		return &git.LogGraph{}, nil
	}
	return f.log, nil
}

func (f *fakeEngine) Walk(string, int) (git.WalkResult, error)      { return git.WalkResult{}, nil }
func (f *fakeEngine) RefMap() (git.RefMap, int, error)              { return git.RefMap{}, 0, nil }
func (f *fakeEngine) Parents(string) ([]string, error)              { return nil, nil }
func (f *fakeEngine) CommitDetail(string) (git.CommitDetail, error) { return git.CommitDetail{}, nil }
func (f *fakeEngine) BranchInfo(string) (git.BranchInfo, error)     { return git.BranchInfo{}, nil }

func (f *fakeEngine) Resolve(ref string) (git.CommitDescriptor, error) {
	short, ok := f.commits[ref]
	if !ok {
		return git.CommitDescriptor{}, git.ErrNotFound
	}
	return git.CommitDescriptor{ID: ref, ShortID: short}, nil
}

func (f *fakeEngine) IsCommit(ref string) bool {
	_, ok := f.commits[ref]
	return ok
}

func (f *fakeEngine) BranchNames() ([]string, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.branches, "main", nil
}

func (f *fakeEngine) Fetch(context.Context) error {
	f.fetchCalls++
	f.branches = append(f.branches, f.fetched...)
	return nil
}

func (f *fakeEngine) CheckoutBranch(_ context.Context, name string) error {
	f.switched = append(f.switched, name)
	return nil
}

func (f *fakeEngine) CheckoutCommit(_ context.Context, id string) (string, error) {
	f.detached = append(f.detached, id)
	if short, ok := f.commits[id]; ok {
		return short, nil
	}
	return id[:min(len(id), 7)], nil
}

func useEngine(t *testing.T, eng *fakeEngine) {
	t.Helper()
	orig := openEngine
	openEngine = func(string) (git.Engine, error) { return eng, nil }
	t.Cleanup(func() { openEngine = orig })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestCheckoutQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		branches   []string
		fetched    []string
		commits    map[string]string
		wantOut    string
		wantSwitch []string
		wantDetach []string
		wantFetch  int
	}{
		{
			name:       "exact match wins",
			query:      "Main",
			branches:   []string{"main", "maintenance", "develop"},
			wantOut:    "Switched to branch 'main'\n",
			wantSwitch: []string{"main"},
		},
		{
			name:       "fuzzy match",
			query:      "dvlp",
			branches:   []string{"main", "develop"},
			wantOut:    "Switched to branch 'develop'\n",
			wantSwitch: []string{"develop"},
		},
		{
			name:       "found after fetch",
			query:      "release",
			branches:   []string{"main"},
			fetched:    []string{"release-1.0"},
			wantOut:    "Switched to branch 'release-1.0'\n",
			wantSwitch: []string{"release-1.0"},
			wantFetch:  1,
		},
		{
			name:       "commit id",
			query:      "0123abcd",
			branches:   []string{"main"},
			commits:    map[string]string{"0123abcd": "0123abc"},
			wantOut:    "Switched to commit '0123abc'\n",
			wantDetach: []string{"0123abcd"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng := &fakeEngine{branches: tc.branches, fetched: tc.fetched, commits: tc.commits}
			useEngine(t, eng)

			out, err := execute(t, "checkout", tc.query)
			if err != nil {
				t.Fatalf("checkout: %v", err)
			}
			if out != tc.wantOut {
				t.Fatalf("output %q, want %q", out, tc.wantOut)
			}
			if strings.Join(eng.switched, ",") != strings.Join(tc.wantSwitch, ",") {
				t.Fatalf("switched %v, want %v", eng.switched, tc.wantSwitch)
			}
			if strings.Join(eng.detached, ",") != strings.Join(tc.wantDetach, ",") {
				t.Fatalf("detached %v, want %v", eng.detached, tc.wantDetach)
			}
			if eng.fetchCalls != tc.wantFetch {
				t.Fatalf("fetched %d times, want %d", eng.fetchCalls, tc.wantFetch)
			}
		})
	}
}

func TestCheckoutNoMatch(t *testing.T) {
	eng := &fakeEngine{branches: []string{"main"}}
	useEngine(t, eng)

	_, err := execute(t, "co", "zzz")
	var nm *NoMatchError
	if !errors.As(err, &nm) || nm.Query != "zzz" {
		t.Fatalf("expected NoMatchError, got %v", err)
	}
	if !errors.Is(err, fuzzy.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch in chain: %v", err)
	}
	if eng.fetchCalls != 1 {
		t.Fatalf("expected one fetch before giving up, got %d", eng.fetchCalls)
	}

	var buf bytes.Buffer
	PrintError(&buf, err)
	want := "gx: no branch or commit matches query: zzz\nhelp: Try 'gx checkout' to search for valid branches.\n"
	if buf.String() != want {
		t.Fatalf("PrintError() = %q, want %q", buf.String(), want)
	}
}

func TestCheckoutPicker(t *testing.T) {
	orig := pickBranch
	t.Cleanup(func() { pickBranch = orig })

	tests := []struct {
		name    string
		result  tui.Result[string]
		wantOut string
	}{
		{name: "chosen", result: tui.Result[string]{Item: "develop", Chosen: true}, wantOut: "Switched to branch 'develop'\n"},
		{name: "cancelled", wantOut: "Checkout cancelled.\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng := &fakeEngine{branches: []string{"main", "develop"}}
			useEngine(t, eng)
			var gotNames []string
			var gotCurrent string
			pickBranch = func(_ context.Context, names []string, current string, _ func(string) (git.BranchInfo, error), _ tui.Options) (tui.Result[string], error) {
				gotNames, gotCurrent = names, current
				return tc.result, nil
			}

			out, err := execute(t, "switch")
			if err != nil {
				t.Fatalf("checkout: %v", err)
			}
			if out != tc.wantOut {
				t.Fatalf("output %q, want %q", out, tc.wantOut)
			}
			if len(gotNames) != 2 || gotCurrent != "main" {
				t.Fatalf("picker got %v, %q", gotNames, gotCurrent)
			}
		})
	}
}

func TestLogCommand(t *testing.T) {
	orig := browseLog
	t.Cleanup(func() { browseLog = orig })

	lg := &git.LogGraph{
		Entries:    []git.CommitDescriptor{{ID: "abcdef0123456789", ShortID: "abcdef0"}},
		GraphLines: []string{"*"},
	}
	eng := &fakeEngine{log: lg}
	useEngine(t, eng)
	var gotOpts tui.Options
	browseLog = func(_ context.Context, got *git.LogGraph, _ func(string) (git.CommitDetail, error), opts tui.Options) (tui.Result[git.CommitDescriptor], error) {
		if got != lg {
			t.Fatal("unexpected log graph")
		}
		gotOpts = opts
		return tui.Result[git.CommitDescriptor]{Item: got.Entries[0], Chosen: true}, nil
	}

	out, err := execute(t, "log", "--watch", "--mode", "dark")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out != "Checked out commit abcdef0\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if gotOpts.WatchPath != "/repo" || gotOpts.Theme != tui.ThemeDark {
		t.Fatalf("unexpected options %+v", gotOpts)
	}
}

func TestLogCommandEmpty(t *testing.T) {
	useEngine(t, &fakeEngine{})
	out, err := execute(t, "l")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out != "No commits found\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLogLimit(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default", want: git.DefaultLimit},
		{name: "flag", args: []string{"-n", "20"}, want: 20},
		{name: "env", env: "30", want: 30},
		{name: "flag beats env", env: "30", args: []string{"--limit", "40"}, want: 40},
		{name: "bad env", env: "many", wantErr: true},
		{name: "negative flag", args: []string{"-n", "-1"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(limitEnv, tc.env)
			var got int
			orig := openEngine
			t.Cleanup(func() { openEngine = orig })
			openEngine = func(string) (git.Engine, error) { return &limitEngine{limit: &got}, nil }

			_, err := execute(t, append([]string{"log"}, tc.args...)...)
			if (err != nil) != tc.wantErr {
				t.Fatalf("log error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Fatalf("limit %d, want %d", got, tc.want)
			}
		})
	}
}

type limitEngine struct {
	fakeEngine
	limit *int
}

func (e *limitEngine) LoadLog(_ string, limit int) (*git.LogGraph, error) {
	*e.limit = limit
	return &git.LogGraph{}, nil
}

func TestInvalidMode(t *testing.T) {
	useEngine(t, &fakeEngine{})
	if _, err := execute(t, "log", "--mode", "sepia"); err == nil {
		t.Fatal("expected an error for an invalid mode")
	}
}

func TestEngineErrorHint(t *testing.T) {
	orig := openEngine
	t.Cleanup(func() { openEngine = orig })
	openEngine = func(path string) (git.Engine, error) { return git.Open(path) }

	_, err := execute(t, "--repo", t.TempDir(), "log")
	if !errors.Is(err, git.ErrNotInRepo) {
		t.Fatalf("expected ErrNotInRepo, got %v", err)
	}
	if Hint(err) == "" {
		t.Fatal("expected a hint for a missing repository")
	}
}

func TestVerboseLogging(t *testing.T) {
	useEngine(t, &fakeEngine{})
	path := filepath.Join(t.TempDir(), "gx.log")

	if _, err := execute(t, "--verbose", "--log-file", path, "log"); err != nil {
		t.Fatalf("log: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "gx starting") {
		t.Fatalf("expected debug output in log file, got %q", data)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "gx ") {
		t.Fatalf("unexpected version output %q", out)
	}
}
