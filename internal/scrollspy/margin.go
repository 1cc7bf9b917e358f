// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scrollspy tracks which user message is currently in view.
package scrollspy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRootMargin is returned by ParseRootMargin.
var ErrInvalidRootMargin = errors.New("invalid root margin")

// Length is a margin value in pixels (lines) or percent.
type Length struct {
	Value   float64
	Percent bool
}

// Resolve converts l to an absolute size relative to total.
func (l Length) Resolve(total int) int {
	if l.Percent {
		return int(math.Round(l.Value * float64(total) / 100))
	}
	return int(math.Round(l.Value))
}

// String formats l the way it was written.
func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return v + "%"
	}
	return v + "px"
}

// Margin grows (positive) or shrinks (negative) the root band.
type Margin struct {
	Top, Right, Bottom, Left Length
}

// String formats m as four values.
func (m Margin) String() string {
	return strings.Join([]string{m.Top.String(), m.Right.String(), m.Bottom.String(), m.Left.String()}, " ")
}

// ParseRootMargin parses a CSS-style margin of one to four values, each in
// px or %. Unitless zero is accepted.
func ParseRootMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 4 {
		return Margin{}, fmt.Errorf("%w: %q: want 1 to 4 values", ErrInvalidRootMargin, s)
	}

	vals := make([]Length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, fmt.Errorf("%w: %q: %v", ErrInvalidRootMargin, s, err)
		}
		vals[i] = l
	}

	switch len(vals) {
	case 1:
		return Margin{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Margin{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Margin{vals[0], vals[1], vals[2], vals[1]}, nil
	default:
		return Margin{vals[0], vals[1], vals[2], vals[3]}, nil
	}
}

func parseLength(s string) (Length, error) {
	var l Length
	num := s
	switch {
	case strings.HasSuffix(s, "%"):
		l.Percent = true
		num = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, fmt.Errorf("bad length %q", s)
	}
	if num == s && v != 0 {
		return Length{}, fmt.Errorf("length %q needs a px or %% unit", s)
	}
	l.Value = v
	return l, nil
}
