package tmdb

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// FixtureClient is a Doer that serves canned responses keyed by the
// response shape, keeping protocol and UI tests deterministic without
// network access. Registering several fixtures of the same shape forms a
// queue: each call consumes one until a single fixture remains, which is
// then served repeatedly. Dispatching an endpoint whose shape has no
// fixture registered is a hard failure.
type FixtureClient struct {
	mu       sync.Mutex
	fixtures map[reflect.Type][]any
	calls    []Endpoint
}

var _ Doer = (*FixtureClient)(nil)

// NewFixtureClient creates an empty FixtureClient.
func NewFixtureClient() *FixtureClient {
	return &FixtureClient{fixtures: make(map[reflect.Type][]any)}
}

// Register queues v as the canned response for its own type. v must be the
// response struct value, not a pointer.
func (f *FixtureClient) Register(v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := reflect.TypeOf(v)
	f.fixtures[t] = append(f.fixtures[t], v)
}

// Calls returns the endpoints dispatched so far, in order.
func (f *FixtureClient) Calls() []Endpoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Endpoint, len(f.calls))
	copy(out, f.calls)
	return out
}

// Do records the call and copies the next fixture for out's type into out.
func (f *FixtureClient) Do(_ context.Context, ep Endpoint, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ep)

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("fixture: out must be a non-nil pointer, got %T", out)
	}
	t := rv.Elem().Type()
	queue := f.fixtures[t]
	if len(queue) == 0 {
		return fmt.Errorf("fixture: no fixture registered for %s", t)
	}
	v := queue[0]
	if len(queue) > 1 {
		f.fixtures[t] = queue[1:]
	}
	rv.Elem().Set(reflect.ValueOf(v))
	return nil
}
