// Package view derives the displayed task list from the stored sequence.
// Nothing here mutates its input.
package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/idilsaglam/tada/internal/model"
)

// EmptyMessage is rendered in place of an empty derived list.
const EmptyMessage = "No tasks to show right now."

// Pipeline filters and sorts tasks using one locale for text ordering.
// A Pipeline is not safe for concurrent use.
type Pipeline struct {
	collator *collate.Collator
}

// New returns a Pipeline ordering text by the rules of tag.
func New(tag language.Tag) *Pipeline {
	return &Pipeline{collator: collate.New(tag)}
}

// Derive runs the pipeline with English collation.
func Derive(tasks []model.Task, filter model.FilterMode, mode model.SortMode) []model.Task {
	return New(language.English).Derive(tasks, filter, mode)
}

// Derive returns a new slice holding the tasks that pass filter, ordered by mode.
// Ties keep their input order.
func (p *Pipeline) Derive(tasks []model.Task, filter model.FilterMode, mode model.SortMode) []model.Task {
	keep := Predicate(filter)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}

	var less func(a, b model.Task) bool
	switch mode {
	case model.SortAZ:
		less = func(a, b model.Task) bool { return p.Compare(a.Text, b.Text) < 0 }
	case model.SortZA:
		less = func(a, b model.Task) bool { return p.Compare(b.Text, a.Text) < 0 }
	case model.SortNewest:
		less = func(a, b model.Task) bool { return a.ID > b.ID }
	case model.SortOldest:
		less = func(a, b model.Task) bool { return a.ID < b.ID }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Compare orders two strings by the pipeline's locale.
func (p *Pipeline) Compare(a, b string) int {
	return p.collator.CompareString(a, b)
}

// Predicate returns the filter test for mode. Unknown modes keep everything.
func Predicate(mode model.FilterMode) func(model.Task) bool {
	switch mode {
	case model.FilterActive:
		return func(t model.Task) bool { return !t.Done }
	case model.FilterDone:
		return func(t model.Task) bool { return t.Done }
	default:
		return func(model.Task) bool { return true }
	}
}
