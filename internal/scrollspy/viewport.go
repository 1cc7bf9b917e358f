// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scrollspy tracks which user message is currently in view.
package scrollspy

import (
	"log/slog"
	"sync"
)

// =============================================================================
// VIEWPORT OBSERVER
// =============================================================================

// Span is the half-open line range [Start, End) an element occupies in the
// rendered content.
type Span struct {
	Start, End int
}

// Height returns the number of lines in s.
func (s Span) Height() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

type observed struct {
	el           Element
	reported     bool
	intersecting bool
}

// ViewportObserver is an Observer for a scrolling terminal viewport.
//
// Elements are placed with SetLayout and the visible window is set with
// Scroll. Each recomputation delivers one batch holding the entries whose
// intersection state changed, plus a first entry for every newly observed
// element.
//
// Thread-safety: All operations are protected by a mutex; the callback runs
// without it.
type ViewportObserver struct {
	mu sync.Mutex

	cb        func([]Entry)
	threshold float64
	margin    Margin

	layout   map[string]Span
	elements map[string]*observed
	order    []string

	yOffset int
	height  int

	disconnected bool
}

// NewViewportObserver creates an observer delivering to cb.
func NewViewportObserver(cb func([]Entry), opts Options) (*ViewportObserver, error) {
	opts = opts.WithDefaults()
	margin, err := ParseRootMargin(opts.RootMargin)
	if err != nil {
		return nil, err
	}
	return &ViewportObserver{
		cb:        cb,
		threshold: opts.ThresholdValue(),
		margin:    margin,
		layout:    make(map[string]Span),
		elements:  make(map[string]*observed),
	}, nil
}

// ViewportObserverFactory is an ObserverFactory producing ViewportObservers.
// An unparsable root margin falls back to DefaultRootMargin.
func ViewportObserverFactory(cb func([]Entry), opts Options) Observer {
	vo, err := NewViewportObserver(cb, opts)
	if err != nil {
		slog.Warn("invalid root margin, using default", "margin", opts.RootMargin, "error", err)
		opts.RootMargin = DefaultRootMargin
		vo, _ = NewViewportObserver(cb, opts)
	}
	return vo
}

// Observe implements Observer.
func (v *ViewportObserver) Observe(el Element) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.disconnected {
		return
	}
	id := el.MessageID()
	if _, ok := v.elements[id]; ok {
		return
	}
	v.elements[id] = &observed{el: el}
	v.order = append(v.order, id)
}

// Unobserve implements Observer.
func (v *ViewportObserver) Unobserve(el Element) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := el.MessageID()
	if _, ok := v.elements[id]; !ok {
		return
	}
	delete(v.elements, id)
	for i, oid := range v.order {
		if oid == id {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

// Disconnect implements Observer. No batches are delivered afterwards.
func (v *ViewportObserver) Disconnect() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.disconnected = true
	v.elements = make(map[string]*observed)
	v.order = nil
}

// SetLayout replaces the line spans of elements, keyed by message ID.
func (v *ViewportObserver) SetLayout(spans map[string]Span) {
	v.mu.Lock()
	v.layout = make(map[string]Span, len(spans))
	for id, s := range spans {
		v.layout[id] = s
	}
	v.mu.Unlock()
}

// Scroll sets the visible window and delivers any changes.
func (v *ViewportObserver) Scroll(yOffset, height int) {
	v.mu.Lock()
	v.yOffset = yOffset
	v.height = height
	v.mu.Unlock()

	v.Refresh()
}

// Refresh recomputes intersections for the current window and layout.
func (v *ViewportObserver) Refresh() {
	v.mu.Lock()
	if v.disconnected || v.cb == nil {
		v.mu.Unlock()
		return
	}

	bandTop, bandBottom := v.bandLocked()
	var batch []Entry
	for _, id := range v.order {
		o := v.elements[id]
		span, placed := v.layout[id]

		var ratio float64
		if placed {
			ratio = intersectionRatio(span, bandTop, bandBottom)
		}
		intersecting := placed && ratio > 0 && ratio >= v.threshold

		if o.reported && o.intersecting == intersecting {
			continue
		}
		o.reported = true
		o.intersecting = intersecting
		batch = append(batch, Entry{
			Target:         o.el,
			IsIntersecting: intersecting,
			Ratio:          ratio,
			Top:            span.Start - v.yOffset,
		})
	}
	cb := v.cb
	v.mu.Unlock()

	if len(batch) > 0 {
		cb(batch)
	}
}

// bandLocked returns the root band [top, bottom) in content lines. Negative
// margins shrink the viewport; the band is never less than one line.
func (v *ViewportObserver) bandLocked() (top, bottom int) {
	top = v.yOffset - v.margin.Top.Resolve(v.height)
	bottom = v.yOffset + v.height + v.margin.Bottom.Resolve(v.height)
	if bottom <= top {
		bottom = top + 1
	}
	return top, bottom
}

// intersectionRatio is the overlap of span and the band, relative to the
// smaller of the two so that tall messages in a thin band can still count.
func intersectionRatio(span Span, bandTop, bandBottom int) float64 {
	h := span.Height()
	if h == 0 {
		return 0
	}
	lo := max(span.Start, bandTop)
	hi := min(span.End, bandBottom)
	if hi <= lo {
		return 0
	}
	return float64(hi-lo) / float64(min(h, bandBottom-bandTop))
}
