// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the list of conversations and their messages.
package conversation

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/util"
)

// Search returns copies of the conversations matching query. Fuzzy title
// matches come first, best score first, followed by conversations whose
// message content contains query (ignoring case and Unicode normalization)
// in list order. An
// empty query returns every conversation.
func (s *Store) Search(query string) []*model.Conversation {
	all := s.Conversations()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	titles := make([]string, len(all))
	for i, conv := range all {
		titles[i] = util.Fold(conv.GetTitle())
	}

	seen := make(map[int]bool)
	var out []*model.Conversation
	needle := util.Fold(query)
	for _, match := range fuzzy.Find(needle, titles) {
		seen[match.Index] = true
		out = append(out, all[match.Index])
	}

	for i, conv := range all {
		if seen[i] {
			continue
		}
		for _, msg := range conv.Messages {
			if strings.Contains(util.Fold(msg.Content), needle) {
				out = append(out, conv)
				break
			}
		}
	}
	return out
}
