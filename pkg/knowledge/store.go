package knowledge

import (
	"errors"
	"fmt"

	"escapadas-chatbot-be/pkg/vector"
)

// Universe names. The two universes are indexed separately and never compared
// against each other.
const (
	UniverseFAQ    = "faq"
	UniverseChunks = "chunks"
)

var ErrCorpusLoad = errors.New("corpus load failed")

// Fragment is a unit of retrievable knowledge with its precomputed embedding.
type Fragment struct {
	ID        string
	Embedding []float32
	Content   string
	MediaRef  *string
}

// Entry is the displayable part of a fragment.
type Entry struct {
	Content  string
	MediaRef *string
}

// Tag returns the media reference or an empty string.
func (e Entry) Tag() string {
	if e.MediaRef == nil {
		return ""
	}
	return *e.MediaRef
}

// Store maps fragment ids to displayable content. Read-only after construction.
type Store struct {
	entries map[string]Entry
}

func NewStore(fragments []Fragment) *Store {
	entries := make(map[string]Entry, len(fragments))
	for _, f := range fragments {
		entries[f.ID] = Entry{Content: f.Content, MediaRef: f.MediaRef}
	}
	return &Store{entries: entries}
}

func (s *Store) Get(id string) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

func (s *Store) Len() int {
	return len(s.entries)
}

// Universe pairs an index with its content store.
type Universe struct {
	Name  string
	Index *vector.Index
	Store *Store
}

// NewUniverse validates fragments and builds both halves of a universe.
func NewUniverse(name string, fragments []Fragment) (*Universe, error) {
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: universe %q is empty", ErrCorpusLoad, name)
	}

	entries := make([]vector.Entry, len(fragments))
	for i, f := range fragments {
		entries[i] = vector.Entry{ID: f.ID, Vector: f.Embedding}
	}

	idx, err := vector.NewIndex(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: universe %q: %w", ErrCorpusLoad, name, err)
	}

	return &Universe{
		Name:  name,
		Index: idx,
		Store: NewStore(fragments),
	}, nil
}

// Match is the best fragment for a query within a universe.
type Match struct {
	ID    string
	Score float64
	Entry Entry
}

// Nearest resolves the best fragment and its stored content.
func (u *Universe) Nearest(query []float32) (Match, error) {
	id, score, err := u.Index.Nearest(query)
	if err != nil {
		return Match{}, err
	}
	entry, ok := u.Store.Get(id)
	if !ok {
		return Match{}, fmt.Errorf("fragment %q missing from %s store", id, u.Name)
	}
	return Match{ID: id, Score: score, Entry: entry}, nil
}
