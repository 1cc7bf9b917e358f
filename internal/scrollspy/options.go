// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scrollspy tracks which user message is currently in view.
package scrollspy

import "fmt"

const (
	// DefaultThreshold is the visible fraction needed to count as intersecting.
	DefaultThreshold = 0.5

	// DefaultRootMargin biases the band toward the top of the viewport.
	DefaultRootMargin = "-20% 0px -80% 0px"

	// DefaultSnippetLength is the snippet size in characters.
	DefaultSnippetLength = 40
)

// Options configures a Correlator and the Observer it creates.
type Options struct {
	// Threshold is the visible fraction of an element needed to count as
	// intersecting. Nil means DefaultThreshold; 0 means any visible line.
	Threshold     *float64
	RootMargin    string
	SnippetLength int
}

// Threshold returns a Threshold value for Options literals.
func Threshold(v float64) *float64 {
	return &v
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Threshold:     Threshold(DefaultThreshold),
		RootMargin:    DefaultRootMargin,
		SnippetLength: DefaultSnippetLength,
	}
}

// ThresholdValue returns the effective threshold.
func (o Options) ThresholdValue() float64 {
	if o.Threshold == nil {
		return DefaultThreshold
	}
	return *o.Threshold
}

// WithDefaults fills unset fields with the stock values.
func (o Options) WithDefaults() Options {
	if o.Threshold == nil {
		o.Threshold = Threshold(DefaultThreshold)
	}
	if o.RootMargin == "" {
		o.RootMargin = DefaultRootMargin
	}
	if o.SnippetLength <= 0 {
		o.SnippetLength = DefaultSnippetLength
	}
	return o
}

// Validate reports the first invalid field.
func (o Options) Validate() error {
	if t := o.ThresholdValue(); t < 0 || t > 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %v", t)
	}
	if o.SnippetLength < 0 {
		return fmt.Errorf("snippet length must not be negative, got %d", o.SnippetLength)
	}
	if o.RootMargin != "" {
		if _, err := ParseRootMargin(o.RootMargin); err != nil {
			return err
		}
	}
	return nil
}
