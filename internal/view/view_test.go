package view

import (
	"reflect"
	"testing"

	"golang.org/x/text/language"

	"github.com/idilsaglam/tada/internal/model"
)

func sample() []model.Task {
	return []model.Task{
		{ID: 10, Text: "banana", Done: false},
		{ID: 11, Text: "Apple", Done: true},
		{ID: 12, Text: "cherry", Done: false},
		{ID: 13, Text: "apple", Done: false},
		{ID: 14, Text: "éclair", Done: true},
		{ID: 15, Text: "banana", Done: true},
	}
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterCorrectness(t *testing.T) {
	tasks := sample()
	for _, mode := range model.FilterModes {
		got := Derive(tasks, mode, model.SortNone)
		keep := Predicate(mode)

		for _, task := range got {
			if !keep(task) {
				t.Errorf("filter %s: task %d does not satisfy predicate", mode, task.ID)
			}
		}
		count := map[int64]int{}
		for _, task := range got {
			count[task.ID]++
		}
		for _, task := range tasks {
			want := 0
			if keep(task) {
				want = 1
			}
			if count[task.ID] != want {
				t.Errorf("filter %s: task %d appears %d times, want %d", mode, task.ID, count[task.ID], want)
			}
		}
	}
}

func TestSortModes(t *testing.T) {
	tests := []struct {
		name string
		mode model.SortMode
		want []int64
	}{
		{"none keeps insertion order", model.SortNone, []int64{10, 11, 12, 13, 14, 15}},
		{"newest first", model.SortNewest, []int64{15, 14, 13, 12, 11, 10}},
		{"oldest first", model.SortOldest, []int64{10, 11, 12, 13, 14, 15}},
		// lowercase sorts before uppercase at the tertiary level; duplicates keep input order.
		{"a to z", model.SortAZ, []int64{13, 11, 10, 15, 12, 14}},
		{"z to a", model.SortZA, []int64{14, 12, 10, 15, 11, 13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Derive(sample(), model.FilterAll, tt.mode))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Derive(%s) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestSortIsNonDecreasing(t *testing.T) {
	p := New(language.English)
	got := p.Derive(sample(), model.FilterAll, model.SortAZ)
	for i := 1; i < len(got); i++ {
		if p.Compare(got[i-1].Text, got[i].Text) > 0 {
			t.Errorf("az order broken at %d: %q before %q", i, got[i-1].Text, got[i].Text)
		}
	}

	got = p.Derive(sample(), model.FilterAll, model.SortNewest)
	for i := 1; i < len(got); i++ {
		if got[i-1].ID < got[i].ID {
			t.Errorf("newest order broken at %d: %d before %d", i, got[i-1].ID, got[i].ID)
		}
	}
}

func TestDeriveDoesNotMutate(t *testing.T) {
	tasks := sample()
	before := append([]model.Task(nil), tasks...)

	out := Derive(tasks, model.FilterAll, model.SortNewest)
	out[0].Text = "changed"

	if !reflect.DeepEqual(tasks, before) {
		t.Errorf("input mutated: got %v, want %v", tasks, before)
	}
}

func TestDeriveEmpty(t *testing.T) {
	got := Derive(nil, model.FilterDone, model.SortAZ)
	if got == nil || len(got) != 0 {
		t.Errorf("Derive(nil) = %#v, want empty non-nil slice", got)
	}
}
