// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scrollspy tracks which user message is currently in view.
package scrollspy

import "github.com/jeranaias/farmdesk/internal/model"

// Element is a rendered message that can be observed.
type Element interface {
	MessageID() string
	Role() model.Role
	Text() string
}

// Entry is one visibility change reported by an Observer.
type Entry struct {
	Target         Element
	IsIntersecting bool
	// Ratio is the visible fraction, 0 to 1.
	Ratio float64
	// Top is the element's vertical offset from the top of the viewport.
	Top int
}

// Observer is the visibility primitive a Correlator drives.
type Observer interface {
	Observe(el Element)
	Unobserve(el Element)
	Disconnect()
}

// ObserverFactory creates an Observer that delivers batches to cb.
type ObserverFactory func(cb func([]Entry), opts Options) Observer

// messageElement exposes a model.Message as an Element.
type messageElement struct {
	msg *model.Message
}

// ElementFor wraps msg as an Element.
func ElementFor(msg *model.Message) Element {
	return messageElement{msg: msg}
}

func (e messageElement) MessageID() string { return e.msg.ID }
func (e messageElement) Role() model.Role  { return e.msg.Role }
func (e messageElement) Text() string      { return e.msg.Content }
