package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"kharcha/internal/core"
)

func TestResolveIsCaseInsensitiveAndCached(t *testing.T) {
	var listCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/categories/", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		io.WriteString(w, `[{"id":7,"name":"Shopping"},{"id":3,"name":"Food & Dining"}]`)
	})
	svc := NewCategoryService(newTestClient(t, mux))

	id, err := svc.Resolve(context.Background(), "shopping")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}

	// second lookup hits the cache
	if _, err := svc.Resolve(context.Background(), "FOOD & DINING"); err != nil {
		t.Fatalf("Resolve cached: %v", err)
	}
	if n := listCalls.Load(); n != 1 {
		t.Fatalf("list calls = %d, want 1", n)
	}

	if _, err := svc.Resolve(context.Background(), "nope"); err == nil {
		t.Fatal("unknown name must fail")
	}
	if _, err := svc.Resolve(context.Background(), "  "); err != core.ErrEmptyCategory {
		t.Fatalf("blank name: got %v, want ErrEmptyCategory", err)
	}
}

func TestCreateCategoryRejectsBlankLocally(t *testing.T) {
	var called atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/categories/", func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
		io.WriteString(w, `{"id":1,"name":"x"}`)
	})
	svc := NewCategoryService(newTestClient(t, mux))

	if _, err := svc.Create(context.Background(), "   "); err != core.ErrEmptyCategory {
		t.Fatalf("got %v, want ErrEmptyCategory", err)
	}
	if called.Load() {
		t.Fatal("blank name must not reach the network")
	}
}

func TestDeleteAllReportsPartialFailure(t *testing.T) {
	var deleted atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/categories/1/", func(w http.ResponseWriter, r *http.Request) {
		deleted.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/categories/2/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"in use"}`, http.StatusConflict)
	})
	mux.HandleFunc("/categories/3/", func(w http.ResponseWriter, r *http.Request) {
		deleted.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	svc := NewCategoryService(newTestClient(t, mux))

	err := svc.DeleteAll(context.Background(), []int64{1, 2, 3})
	if err == nil {
		t.Fatal("expected aggregate error for the failed delete")
	}
	if !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("error = %v, want failed/total counts", err)
	}
	// the two healthy deletes are not rolled back or skipped
	if n := deleted.Load(); n != 2 {
		t.Fatalf("successful deletes = %d, want 2", n)
	}
}

func TestCreateCategoryInvalidatesCache(t *testing.T) {
	var listCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/categories/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			io.WriteString(w, `{"id":9,"name":"Travel"}`)
			return
		}
		listCalls.Add(1)
		io.WriteString(w, `[{"id":7,"name":"Shopping"}]`)
	})
	svc := NewCategoryService(newTestClient(t, mux))

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := svc.Create(context.Background(), "Travel"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// the resolve after create must refetch, not serve the stale list
	if _, err := svc.Resolve(context.Background(), "Shopping"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n := listCalls.Load(); n != 2 {
		t.Fatalf("list calls = %d, want 2", n)
	}
}
