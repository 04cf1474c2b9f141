package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/nflstats/internal/log"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingObserver) ObserveFetch(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("parses a successful page", func(t *testing.T) {
		t.Parallel()

		uaCh := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uaCh <- r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><a class="next" href="/page/2">Next</a></body></html>`))
		}))
		defer server.Close()

		obs := &recordingObserver{}
		client := NewClient(WithUserAgent("test-agent"), WithObserver(obs), WithLogger(log.Discard()))

		page, err := client.Fetch(context.Background(), server.URL+"/page/1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", page.StatusCode)
		}
		if gotUA := <-uaCh; gotUA != "test-agent" {
			t.Errorf("expected user agent 'test-agent', got %q", gotUA)
		}

		href, ok := page.Doc.Find("a.next").Attr("href")
		if !ok {
			t.Fatal("expected next anchor")
		}
		next, err := page.Resolve(href)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != server.URL+"/page/2" {
			t.Errorf("unexpected resolved url %q", next)
		}
		if len(obs.outcomes) != 1 || obs.outcomes[0] != OutcomeOK {
			t.Errorf("unexpected outcomes %v", obs.outcomes)
		}
	})

	t.Run("non-success status returns StatusError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		obs := &recordingObserver{}
		client := NewClient(WithObserver(obs), WithLogger(log.Discard()))

		_, err := client.Fetch(context.Background(), server.URL)
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", statusErr.StatusCode)
		}
		if !IsStatus(err, http.StatusNotFound) {
			t.Error("IsStatus should match 404")
		}
		if len(obs.outcomes) != 1 || obs.outcomes[0] != OutcomeStatus {
			t.Errorf("unexpected outcomes %v", obs.outcomes)
		}
	})

	t.Run("redirect target becomes the base url", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new/dir/", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new/dir/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<a href="child">x</a>`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := NewClient(WithLogger(log.Discard()))
		page, err := client.Fetch(context.Background(), server.URL+"/old")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := page.Resolve("child")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != server.URL+"/new/dir/child" {
			t.Errorf("unexpected resolved url %q", got)
		}
	})

	t.Run("timeout is a transport error", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		obs := &recordingObserver{}
		client := NewClient(WithTimeout(50*time.Millisecond), WithObserver(obs), WithLogger(log.Discard()))

		_, err := client.Fetch(context.Background(), server.URL)
		if err == nil {
			t.Fatal("expected timeout error")
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			t.Errorf("timeout should not be a StatusError: %v", err)
		}
		if len(obs.outcomes) != 1 || obs.outcomes[0] != OutcomeError {
			t.Errorf("unexpected outcomes %v", obs.outcomes)
		}
	})

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()

		client := NewClient(WithLogger(log.Discard()))
		if _, err := client.Fetch(context.Background(), ""); !errors.Is(err, ErrEmptyURL) {
			t.Errorf("expected ErrEmptyURL, got %v", err)
		}
	})
}

func TestParseString(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(`<table><tr><th>Player</th></tr></table>`, "https://www.nfl.com/stats/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Find("th").Text(); got != "Player" {
		t.Errorf("unexpected header text %q", got)
	}
	if doc.Url == nil || doc.Url.Host != "www.nfl.com" {
		t.Errorf("unexpected document url %v", doc.Url)
	}
}
