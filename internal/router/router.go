// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps UI paths to pages.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// AppTitle is appended to every page title.
const AppTitle = "Farmer Admin System"

// Route names.
const (
	RouteChat      = "chat"
	RouteKnowledge = "knowledge"
	RouteForms     = "forms"
)

// ErrInvalidPath is returned for paths that are not absolute.
var ErrInvalidPath = errors.New("invalid path")

// Route describes one page.
type Route struct {
	Name  string
	Path  string
	Title string
	// OptionalParam names a single optional trailing segment.
	OptionalParam string
}

var routes = []Route{
	{Name: RouteChat, Path: "/chat", Title: "AI Chat", OptionalParam: "id"},
	{Name: RouteKnowledge, Path: "/knowledge", Title: "Knowledge Base"},
	{Name: RouteForms, Path: "/forms", Title: "E-Forms"},
}

// Routes returns every page route.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Lookup returns the route named name.
func Lookup(name string) (Route, bool) {
	for _, r := range routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Match is a resolved path.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
	// Redirected is set when Path differs from the requested path.
	Redirected bool
}

// Resolve matches p against the routes, following redirects.
func Resolve(p string) (Match, error) {
	if !strings.HasPrefix(p, "/") {
		return Match{}, fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}

	clean := path.Clean(p)
	redirected := clean != p

	for hop := 0; hop < 2; hop++ {
		if clean == "/" {
			clean = "/chat"
			redirected = true
		}
		if m, ok := match(clean); ok {
			m.Redirected = redirected
			return m, nil
		}
		clean = "/"
		redirected = true
	}
	return Match{}, fmt.Errorf("%w: %q", ErrInvalidPath, p)
}

func match(p string) (Match, bool) {
	for _, r := range routes {
		if p == r.Path {
			return Match{Route: r, Path: p, Params: map[string]string{}}, true
		}
		if r.OptionalParam == "" {
			continue
		}
		rest, ok := strings.CutPrefix(p, r.Path+"/")
		if !ok || rest == "" || strings.Contains(rest, "/") {
			continue
		}
		value, err := url.PathUnescape(rest)
		if err != nil {
			continue
		}
		return Match{Route: r, Path: p, Params: map[string]string{r.OptionalParam: value}}, true
	}
	return Match{}, false
}

// DocumentTitle returns the window title for m.
func DocumentTitle(m Match) string {
	if m.Route.Title == "" {
		return AppTitle
	}
	return m.Route.Title + " - " + AppTitle
}

// ChatPath returns the path of conversation id, or /chat when id is empty.
func ChatPath(id string) string {
	if id == "" {
		return "/chat"
	}
	return "/chat/" + url.PathEscape(id)
}
