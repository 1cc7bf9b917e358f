// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scrollspy tracks which user message is currently in view.
//
// A Correlator owns one visibility Observer per mount cycle. The observer
// reports batches of intersection entries; the correlator keeps the ID and
// a short snippet of the topmost intersecting user message and notifies
// listeners when it changes.
//
// The Observer contract is platform neutral. ViewportObserver implements it
// for a line-based terminal viewport.
//
// Usage:
//
//	corr := scrollspy.New(scrollspy.ViewportObserverFactory, scrollspy.DefaultOptions())
//	err := corr.Scope(func() error {
//	    for _, msg := range conv.Messages {
//	        corr.Observe(scrollspy.ElementFor(msg))
//	    }
//	    return run()
//	})
package scrollspy
