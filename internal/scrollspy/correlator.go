// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scrollspy tracks which user message is currently in view.
package scrollspy

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/util"
)

// ErrNoObserver is returned by Mount when the factory yields no observer.
var ErrNoObserver = errors.New("scrollspy: factory returned no observer")

// =============================================================================
// CORRELATOR
// =============================================================================

// Correlator maps visible user messages to a single current message.
//
// Thread-safety: All operations are protected by a mutex. Observer methods
// and listeners are always called without the lock held, so an Observer may
// deliver batches synchronously.
type Correlator struct {
	mu sync.Mutex

	factory ObserverFactory
	opts    Options
	logger  *slog.Logger

	observer Observer
	mounted  bool

	currentID string
	snippet   string
	listeners []func(id, snippet string)
}

// New creates an unmounted Correlator. Zero option fields take defaults.
func New(factory ObserverFactory, opts Options) *Correlator {
	return &Correlator{
		factory: factory,
		opts:    opts.WithDefaults(),
		logger:  slog.Default().With("component", "scrollspy"),
	}
}

// WithLogger replaces the logger and returns c.
func (c *Correlator) WithLogger(logger *slog.Logger) *Correlator {
	if logger != nil {
		c.mu.Lock()
		c.logger = logger.With("component", "scrollspy")
		c.mu.Unlock()
	}
	return c
}

// Options returns the effective options.
func (c *Correlator) Options() Options {
	return c.opts
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Mount creates the observer. Mounting an already mounted correlator is a
// no-op, so exactly one observer exists per mount cycle.
func (c *Correlator) Mount() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mounted {
		return nil
	}
	if c.factory == nil {
		return ErrNoObserver
	}

	obs := c.factory(c.handle, c.opts)
	if obs == nil {
		return ErrNoObserver
	}
	c.observer = obs
	c.mounted = true
	return nil
}

// Mounted reports whether an observer is held.
func (c *Correlator) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Observer returns the current observer, or nil when unmounted.
func (c *Correlator) Observer() Observer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.observer
}

// Cleanup disconnects and releases the observer. It is idempotent, and
// the correlator can be mounted again afterwards. The tracked current
// message is kept.
func (c *Correlator) Cleanup() {
	c.mu.Lock()
	obs := c.observer
	c.observer = nil
	c.mounted = false
	c.mu.Unlock()

	if obs != nil {
		obs.Disconnect()
	}
}

// Scope mounts the correlator, runs fn and cleans up on every exit path,
// panics included.
func (c *Correlator) Scope(fn func() error) error {
	if err := c.Mount(); err != nil {
		return err
	}
	defer c.Cleanup()
	return fn()
}

// =============================================================================
// OBSERVATION
// =============================================================================

// Observe starts tracking el. It is a no-op while unmounted.
func (c *Correlator) Observe(el Element) {
	if obs := c.Observer(); obs != nil && el != nil {
		obs.Observe(el)
	}
}

// Unobserve stops tracking el. It is a no-op while unmounted.
func (c *Correlator) Unobserve(el Element) {
	if obs := c.Observer(); obs != nil && el != nil {
		obs.Unobserve(el)
	}
}

// Current returns the tracked message ID and snippet; both are empty until
// a user message has intersected.
func (c *Correlator) Current() (id, snippet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID, c.snippet
}

// OnChange registers fn to run whenever the current message changes.
func (c *Correlator) OnChange(fn func(id, snippet string)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// handle applies one observer batch. Entries are ordered topmost last, so
// the topmost intersecting user message of the batch wins; equal offsets
// keep delivery order.
func (c *Correlator) handle(entries []Entry) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Top > sorted[j].Top
	})

	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}

	prevID, prevSnippet := c.currentID, c.snippet
	for _, e := range sorted {
		if !e.IsIntersecting || e.Target == nil {
			continue
		}
		if e.Target.Role() != model.RoleUser {
			continue
		}
		id := e.Target.MessageID()
		if id == "" {
			continue
		}
		c.currentID = id
		c.snippet = util.Truncate(e.Target.Text(), c.opts.SnippetLength)
	}

	id, snippet := c.currentID, c.snippet
	changed := id != prevID || snippet != prevSnippet
	listeners := append([]func(string, string){}, c.listeners...)
	logger := c.logger
	c.mu.Unlock()

	if !changed {
		return
	}
	logger.Debug("current message changed", "id", id)
	for _, fn := range listeners {
		fn(id, snippet)
	}
}
