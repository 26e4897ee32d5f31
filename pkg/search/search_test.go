package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/store"
)

func TestTargetCycle(t *testing.T) {
	got := []Target{}
	target := TargetLocal
	for i := 0; i < 5; i++ {
		got = append(got, target)
		target = target.Next()
	}
	assert.Equal(t, []Target{TargetLocal, TargetCratesIO, TargetCheatSh, TargetAll, TargetLocal}, got)
}

func TestParseTarget(t *testing.T) {
	for in, want := range map[string]Target{
		"":          TargetLocal,
		"LOCAL":     TargetLocal,
		"crates":    TargetCratesIO,
		"Crates.io": TargetCratesIO,
		"cheat.sh":  TargetCheatSh,
		"all":       TargetAll,
	} {
		got, err := ParseTarget(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseTarget("google")
	assert.Error(t, err)
}

func TestLocalProviderAgainstStore(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(ctx, filepath.Join(t.TempDir(), "notebox.db"))
	require.NoError(t, err)
	defer db.Close()

	s := note.Section{Title: "📁 Notes", Details: []note.Detail{
		note.NewDetail("Welcome", "hello there", note.None, time.Now()),
	}}
	require.NoError(t, db.SaveSection(ctx, &s))

	results, err := Local{Store: db}.Search(ctx, "hell")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Welcome", results[0].Title)
	assert.Equal(t, SourceLocal, results[0].Source)
	assert.Equal(t, s.ID, results[0].SectionID)
	assert.Equal(t, s.Details[0].ID, results[0].DetailID)
	assert.False(t, results[0].Remote())
}

func TestCratesIOProvider(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "/api/v1/crates", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"crates":[{"name":"serde","description":"  A serialization framework "},{"name":"nodesc","description":null}]}`))
	}))
	defer srv.Close()

	p := NewCratesIO(HTTPOptions{BaseURL: srv.URL, UserAgent: "notebox-test"})
	results, err := p.Search(context.Background(), "serde json")
	require.NoError(t, err)
	assert.Equal(t, "notebox-test", gotUA)
	assert.Equal(t, "serde json", gotQuery)
	require.Len(t, results, 2)
	assert.Equal(t, Result{
		Title:       "serde",
		Description: "A serialization framework",
		Source:      SourceCratesIO,
		URL:         srv.URL + "/crates/serde",
	}, results[0])
	assert.Empty(t, results[1].Description)
}

func TestCratesIOProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewCratesIO(HTTPOptions{BaseURL: srv.URL}).Search(context.Background(), "x")
	assert.ErrorContains(t, err, "403")
}

func TestCheatShProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tar", r.URL.Path)
		assert.Equal(t, "T", r.URL.RawQuery)
		_, _ = w.Write([]byte("tar -xzf file.tar.gz\n"))
	}))
	defer srv.Close()

	results, err := NewCheatSh(HTTPOptions{BaseURL: srv.URL}).Search(context.Background(), "tar")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tar", results[0].Title)
	assert.Equal(t, "tar -xzf file.tar.gz", results[0].Description)
	assert.Equal(t, srv.URL+"/tar", results[0].URL)
	assert.True(t, results[0].Remote())
}

func staticProvider(source Source, titles ...string) Provider {
	return ProviderFunc(func(_ context.Context, query string) ([]Result, error) {
		out := make([]Result, 0, len(titles))
		for _, title := range titles {
			out = append(out, Result{Title: title, Description: query, Source: source, URL: "https://example.com/" + title})
		}
		return out, nil
	})
}

func waitResponse(t *testing.T, c *Coordinator) Response {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if resp, ok := c.Poll(); ok {
			return resp
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for search response")
	return Response{}
}

func TestCoordinatorLocalIsSynchronous(t *testing.T) {
	local := staticProvider(SourceLocal, "a", "b")
	c := NewCoordinator(local, nil, nil)
	defer c.Close()

	results, pending := c.Search(context.Background(), "q", TargetLocal)
	assert.False(t, pending)
	assert.Len(t, results, 2)
	assert.Nil(t, c.Done(), "local searches never start the worker")

	_, ok := c.Poll()
	assert.False(t, ok)
}

func TestCoordinatorBlankQuery(t *testing.T) {
	c := NewCoordinator(staticProvider(SourceLocal, "a"), nil, nil)
	results, pending := c.Search(context.Background(), "   ", TargetCratesIO)
	assert.Nil(t, results)
	assert.False(t, pending)
}

func TestCoordinatorRemoteAndAll(t *testing.T) {
	c := NewCoordinator(nil, staticProvider(SourceCratesIO, "serde"), staticProvider(SourceCheatSh, "sheet"))
	defer c.Close()
	ctx := context.Background()

	results, pending := c.Search(ctx, "json", TargetCratesIO)
	assert.Nil(t, results)
	assert.True(t, pending)
	resp := waitResponse(t, c)
	assert.Equal(t, "json", resp.Query)
	assert.Equal(t, TargetCratesIO, resp.Target)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "serde", resp.Results[0].Title)

	_, pending = c.Search(ctx, "json", TargetAll)
	require.True(t, pending)
	resp = waitResponse(t, c)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, SourceCratesIO, resp.Results[0].Source)
	assert.Equal(t, SourceCheatSh, resp.Results[1].Source)
}

func TestCoordinatorProviderErrorDegrades(t *testing.T) {
	failing := ProviderFunc(func(context.Context, string) ([]Result, error) {
		return nil, errors.New("offline")
	})
	c := NewCoordinator(nil, failing, staticProvider(SourceCheatSh, "sheet"))
	defer c.Close()

	_, pending := c.Search(context.Background(), "q", TargetAll)
	require.True(t, pending)
	resp := waitResponse(t, c)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "sheet", resp.Results[0].Title)
}

func TestCoordinatorDropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	blocking := ProviderFunc(func(_ context.Context, q string) ([]Result, error) {
		calls.Add(1)
		<-release
		return []Result{{Title: q}}, nil
	})
	c := NewCoordinator(nil, blocking, nil, WithQueue(1))
	ctx := context.Background()

	_, pending := c.Search(ctx, "first", TargetCratesIO)
	require.True(t, pending)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, pending = c.Search(ctx, "second", TargetCratesIO)
	require.True(t, pending, "one request fits in the queue")
	_, pending = c.Search(ctx, "third", TargetCratesIO)
	assert.False(t, pending, "a full queue drops the newest query")

	close(release)
	assert.Equal(t, "first", waitResponse(t, c).Query)
	c.Close()
	<-c.Done()
	assert.EqualValues(t, 2, calls.Load())
}

func TestCoordinatorNoCancellation(t *testing.T) {
	c := NewCoordinator(nil, staticProvider(SourceCratesIO, "x"), nil)
	ctx := context.Background()
	_, _ = c.Search(ctx, "old", TargetCratesIO)
	_, _ = c.Search(ctx, "new", TargetCratesIO)
	assert.Equal(t, "old", waitResponse(t, c).Query, "superseded queries still answer")
	assert.Equal(t, "new", waitResponse(t, c).Query)
	c.Close()
	<-c.Done()

	_, pending := c.Search(ctx, "late", TargetCratesIO)
	assert.False(t, pending)
}

func TestCoordinatorAwait(t *testing.T) {
	c := NewCoordinator(staticProvider(SourceLocal, "l"), staticProvider(SourceCratesIO, "serde"), nil)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	results, err := c.Await(ctx, "json", TargetCratesIO)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "serde", results[0].Title)

	results, err = c.Await(ctx, "json", TargetLocal)
	require.NoError(t, err)
	assert.Equal(t, "l", results[0].Title)
}
