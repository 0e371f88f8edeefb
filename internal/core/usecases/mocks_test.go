// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"arlo/internal/core/domain"
	"arlo/internal/core/ports"
)

// fakeResponse describe cómo responde fakeFetcher para una URL.
type fakeResponse struct {
	body         string
	err          error
	delay        time.Duration
	ignoreCancel bool // simula un transporte que no observa ctx
	panicMsg     string
}

// fakeFetcher es un mock de ports.Fetcher indexado por URL.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     map[string]int
}

func newFakeFetcher(responses map[string]fakeResponse) *fakeFetcher {
	return &fakeFetcher{
		responses: responses,
		calls:     make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	r, ok := f.responses[url]
	f.calls[url]++
	f.mu.Unlock()

	if !ok {
		return nil, errors.New("no fake response for " + url)
	}
	if r.panicMsg != "" {
		panic(r.panicMsg)
	}

	if r.delay > 0 {
		if r.ignoreCancel {
			time.Sleep(r.delay)
		} else {
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
				// bytes parciales junto con el error de cancelación
				return []byte(r.body[:len(r.body)/2]), ctx.Err()
			}
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// recordingNotifier es un mock de ports.Notifier que guarda los eventos.
type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event ports.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) count(eventType ports.EventType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.Type == eventType {
			c++
		}
	}
	return c
}

func (n *recordingNotifier) runIDs() map[string]bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make(map[string]bool)
	for _, e := range n.events {
		ids[e.RunID] = true
	}
	return ids
}

// staticCatalog es un mock de ports.SourceCatalog.
type staticCatalog struct {
	sources []domain.Source
	err     error
	lastKW  string
}

func (c *staticCatalog) Build(keyword string) ([]domain.Source, error) {
	c.lastKW = keyword
	return c.sources, c.err
}

func mustSource(t *testing.T, name, url string) domain.Source {
	t.Helper()
	s, err := domain.NewSource(name, url)
	if err != nil {
		t.Fatalf("failed to build source %s: %v", name, err)
	}
	return s
}

func names(outcomes []domain.FetchOutcome) []string {
	out := make([]string, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Source()
	}
	return out
}
