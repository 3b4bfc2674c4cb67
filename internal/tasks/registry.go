// Package tasks tracks in-flight background fetches so that only the most
// recent fetch for a key can ever deliver its result.
package tasks

import (
	"context"
	"sort"
)

// Fetch keys used by the controller
const (
	Search  = "search"
	Detail  = "detail"
	Summary = "summary"
)

type entry struct {
	generation uint64
	cancel     context.CancelFunc
}

// Registry maps a fetch key to its single live generation. It is owned by
// the controller goroutine and is not safe for concurrent use.
type Registry struct {
	parent context.Context
	next   uint64
	live   map[string]entry
}

// NewRegistry returns an empty registry. Contexts handed out by Start are
// derived from parent, so cancelling parent cancels every fetch.
func NewRegistry(parent context.Context) *Registry {
	if parent == nil {
		parent = context.Background()
	}
	return &Registry{
		parent: parent,
		live:   make(map[string]entry),
	}
}

// Start cancels any live fetch for key and installs a new generation. The
// returned context is cancelled when the generation is superseded or
// cancelled; the caller tags its result with the generation.
func (r *Registry) Start(key string) (uint64, context.Context) {
	r.Cancel(key)

	r.next++
	ctx, cancel := context.WithCancel(r.parent)
	r.live[key] = entry{generation: r.next, cancel: cancel}
	return r.next, ctx
}

// Cancel stops the live fetch for key, if any. Its result will be dropped.
func (r *Registry) Cancel(key string) bool {
	e, ok := r.live[key]
	if !ok {
		return false
	}
	e.cancel()
	delete(r.live, key)
	return true
}

// Complete reports whether a result tagged with generation may be applied.
// A live generation is released on completion; anything else is stale.
func (r *Registry) Complete(key string, generation uint64) bool {
	e, ok := r.live[key]
	if !ok || e.generation != generation {
		return false
	}
	e.cancel()
	delete(r.live, key)
	return true
}

// Live returns the live generation for key
func (r *Registry) Live(key string) (uint64, bool) {
	e, ok := r.live[key]
	return e.generation, ok
}

// Busy reports whether any fetch is in flight
func (r *Registry) Busy() bool {
	return len(r.live) > 0
}

// Keys returns the keys with a live fetch, sorted
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.live))
	for k := range r.live {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CancelAll stops every live fetch
func (r *Registry) CancelAll() {
	for key := range r.live {
		r.Cancel(key)
	}
}
