// Package store owns the task list and keeps it in sync with a storage slot.
package store

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/storage"
	"github.com/idilsaglam/tada/internal/view"
)

// DefaultKey is the slot key the task list is stored under.
const DefaultKey = "todo-list"

var (
	// ErrEmptyText is returned by Add when the text is blank after trimming.
	ErrEmptyText = errors.New("task text cannot be empty")
	// ErrNotFound is reported by callers that need a task id to exist.
	ErrNotFound = errors.New("task not found")
)

// Store holds the ordered task sequence and the current view parameters.
// It is not safe for concurrent use; all calls come from one event loop.
type Store struct {
	slot     storage.Slot
	key      string
	logger   *log.Logger
	now      func() time.Time
	pipeline *view.Pipeline

	tasks  []model.Task
	filter model.FilterMode
	sort   model.SortMode
	lastID int64
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now as the id source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocale sets the language used for alphabetical ordering.
func WithLocale(tag language.Tag) Option {
	return func(s *Store) { s.pipeline = view.New(tag) }
}

// New returns an empty Store backed by slot under key. Call Load to read
// previously saved tasks.
func New(slot storage.Slot, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		slot:   slot,
		key:    key,
		logger: logging.Discard(),
		now:    time.Now,
		tasks:  []model.Task{},
		filter: model.FilterAll,
		sort:   model.SortNone,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = view.New(language.English)
	}
	return s
}

// Load replaces the sequence with the stored one. Missing, unreadable or
// malformed data leaves the list empty.
func (s *Store) Load() {
	s.tasks = []model.Task{}
	raw, ok, err := s.slot.Get(s.key)
	if err != nil {
		s.logger.Warn("load failed, starting empty", "key", s.key, "err", err)
		return
	}
	if !ok {
		s.logger.Debug("nothing stored yet", "key", s.key)
		return
	}
	tasks, err := Decode(raw)
	if err != nil {
		s.logger.Warn("stored tasks unreadable, starting empty", "key", s.key, "err", err)
		return
	}
	s.tasks = tasks
	for _, t := range tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	s.logger.Debug("loaded tasks", "key", s.key, "count", len(tasks))
}

// Add appends a new task with the trimmed text.
func (s *Store) Add(rawText string) (model.Task, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}
	t := model.Task{ID: s.nextID(), Text: text}
	s.tasks = append(s.tasks, t)
	s.save()
	return t, nil
}

// ids follow the wall clock in milliseconds but never repeat or go backwards.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// ToggleDone flips Done on the task with id, keeping its position.
// It reports whether the task exists.
func (s *Store) ToggleDone(id int64) bool {
	found := false
	next := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		if t.ID == id {
			t.Done = !t.Done
			found = true
		}
		next[i] = t
	}
	s.tasks = next
	s.save()
	return found
}

// Delete removes the task with id and reports whether it existed.
func (s *Store) Delete(id int64) bool {
	next := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	found := len(next) != len(s.tasks)
	s.tasks = next
	s.save()
	return found
}

func (s *Store) save() {
	raw, err := Encode(s.tasks)
	if err != nil {
		s.logger.Warn("encode failed, not saved", "err", err)
		return
	}
	if err := s.slot.Set(s.key, raw); err != nil {
		s.logger.Warn("save failed", "key", s.key, "err", err)
		return
	}
	s.logger.Debug("saved tasks", "key", s.key, "count", len(s.tasks))
}

func (s *Store) SetFilterMode(mode model.FilterMode) { s.filter = mode }
func (s *Store) SetSortMode(mode model.SortMode)     { s.sort = mode }
func (s *Store) FilterMode() model.FilterMode        { return s.filter }
func (s *Store) SortMode() model.SortMode            { return s.sort }

// Tasks returns a copy of the stored sequence in insertion order.
func (s *Store) Tasks() []model.Task {
	return append([]model.Task(nil), s.tasks...)
}

// Get returns the task with id.
func (s *Store) Get(id int64) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// View derives the displayed list from the current parameters.
func (s *Store) View() []model.Task {
	return s.pipeline.Derive(s.tasks, s.filter, s.sort)
}

// Stats counts done and pending tasks over the whole list.
func (s *Store) Stats() (done, pending int) {
	for _, t := range s.tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
