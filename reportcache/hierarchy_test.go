package reportcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	repository "github.com/goliatone/go-repository-bun"
)

type division struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// fakeDivisionRepo implements the read slice of a repository for lookups.
type fakeDivisionRepo struct {
	mu        sync.Mutex
	divisions []division
	err       error
	calls     int
}

func (f *fakeDivisionRepo) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]division, int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.divisions, len(f.divisions), nil
}

func (f *fakeDivisionRepo) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestLookupCachesFullList(t *testing.T) {
	repo := &fakeDivisionRepo{divisions: []division{{ID: "D1", Name: "Operations"}, {ID: "D2", Name: "Finance"}}}
	cacheStore := newFakeCache()
	lookup := NewLookup[division]("divisions", repo, cacheStore, 10*time.Minute)

	for i := 0; i < 3; i++ {
		records, total, err := lookup.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if total != 2 || len(records) != 2 {
			t.Fatalf("got %d records (total %d), want 2", len(records), total)
		}
	}

	if repo.listCalls() != 1 {
		t.Errorf("repository hit %d times, want 1 (cached)", repo.listCalls())
	}

	cacheStore.mu.Lock()
	ttl := cacheStore.ttls[HierarchyPrefix("divisions")]
	cacheStore.mu.Unlock()
	if ttl != 10*time.Minute {
		t.Errorf("ttl = %v, want the flat hierarchy tier", ttl)
	}
}

func TestLookupBypassesCacheWithCriteria(t *testing.T) {
	repo := &fakeDivisionRepo{divisions: []division{{ID: "D1"}}}
	cacheStore := newFakeCache()
	lookup := NewLookup[division]("divisions", repo, cacheStore, 10*time.Minute)

	for i := 0; i < 2; i++ {
		if _, _, err := lookup.List(context.Background(), nil); err != nil {
			t.Fatalf("List: %v", err)
		}
	}

	if repo.listCalls() != 2 {
		t.Errorf("criteria calls must bypass the cache, got %d repo hits", repo.listCalls())
	}
	if cacheStore.Len() != 0 {
		t.Errorf("criteria calls must not populate the cache, got %d entries", cacheStore.Len())
	}
}

func TestLookupPropagatesRepositoryError(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &fakeDivisionRepo{err: wantErr}
	lookup := NewLookup[division]("divisions", repo, newFakeCache(), 10*time.Minute)

	if _, _, err := lookup.List(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestLookupInvalidate(t *testing.T) {
	repo := &fakeDivisionRepo{divisions: []division{{ID: "D1"}}}
	cacheStore := newFakeCache()
	lookup := NewLookup[division]("divisions", repo, cacheStore, 10*time.Minute)

	if _, _, err := lookup.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	n, err := lookup.Invalidate(context.Background())
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if n != 1 {
		t.Errorf("invalidated %d entries, want 1", n)
	}

	if _, _, err := lookup.List(context.Background()); err != nil {
		t.Fatalf("List after invalidate: %v", err)
	}
	if repo.listCalls() != 2 {
		t.Errorf("expected refetch after invalidation, got %d repo hits", repo.listCalls())
	}
}
