package model

import (
	"errors"
	"fmt"
	"strings"
)

// Task is the domain model for a todo entry.
// ID orders tasks by creation; Text is trimmed and never empty.
type Task struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ErrUnknownMode is returned when a filter or sort name cannot be parsed.
var ErrUnknownMode = errors.New("unknown mode")

// FilterMode selects which subset of tasks is shown.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterActive FilterMode = "active"
	FilterDone   FilterMode = "done"
)

// FilterModes lists filters in selector order.
var FilterModes = []FilterMode{FilterAll, FilterActive, FilterDone}

func (f FilterMode) String() string { return string(f) }

// Next cycles all -> active -> done -> all.
func (f FilterMode) Next() FilterMode {
	for i, m := range FilterModes {
		if m == f {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterAll
}

func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "done":
		return FilterDone, nil
	}
	return FilterAll, fmt.Errorf("filter %q: %w", s, ErrUnknownMode)
}

// SortMode is the ordering applied to the filtered subset.
type SortMode string

const (
	SortNone   SortMode = "none"
	SortAZ     SortMode = "az"
	SortZA     SortMode = "za"
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
)

// SortModes lists sort options in selector order.
var SortModes = []SortMode{SortNone, SortAZ, SortZA, SortNewest, SortOldest}

func (s SortMode) String() string { return string(s) }

// Label is the human-readable name shown by the selectors.
func (s SortMode) Label() string {
	switch s {
	case SortAZ:
		return "A → Z"
	case SortZA:
		return "Z → A"
	case SortNewest:
		return "Newest First"
	case SortOldest:
		return "Oldest First"
	default:
		return "None"
	}
}

// Next cycles through SortModes in order.
func (s SortMode) Next() SortMode {
	for i, m := range SortModes {
		if m == s {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortNone
}

func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "az", "alphabetical-ascending":
		return SortAZ, nil
	case "za", "alphabetical-descending":
		return SortZA, nil
	case "newest", "newest-first":
		return SortNewest, nil
	case "oldest", "oldest-first":
		return SortOldest, nil
	}
	return SortNone, fmt.Errorf("sort %q: %w", s, ErrUnknownMode)
}
