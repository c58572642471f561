package vector

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyIndex        = errors.New("vector index is empty")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrDegenerateVector  = errors.New("vector has zero magnitude")
)

// Entry is a single indexed vector.
type Entry struct {
	ID     string
	Vector []float32
}

// Index is an immutable exact nearest-neighbour index over cosine similarity.
// Lookups are a full linear scan, so the true best match is always returned.
type Index struct {
	ids   []string
	vecs  [][]float32
	norms []float64
	dim   int
}

// NewIndex builds an index preserving the order of entries. Order matters for
// ties: Nearest returns the first entry that reaches the maximum score.
func NewIndex(entries []Entry) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyIndex
	}

	idx := &Index{
		ids:   make([]string, 0, len(entries)),
		vecs:  make([][]float32, 0, len(entries)),
		norms: make([]float64, 0, len(entries)),
		dim:   len(entries[0].Vector),
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("duplicate fragment id %q", e.ID)
		}
		seen[e.ID] = struct{}{}

		if len(e.Vector) != idx.dim {
			return nil, fmt.Errorf("%w: entry %q has %d dimensions, want %d", ErrDimensionMismatch, e.ID, len(e.Vector), idx.dim)
		}
		n := norm(e.Vector)
		if n == 0 {
			return nil, fmt.Errorf("%w: entry %q", ErrDegenerateVector, e.ID)
		}

		vec := make([]float32, len(e.Vector))
		copy(vec, e.Vector)

		idx.ids = append(idx.ids, e.ID)
		idx.vecs = append(idx.vecs, vec)
		idx.norms = append(idx.norms, n)
	}

	return idx, nil
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.ids)
}

func (i *Index) Dimensions() int {
	return i.dim
}

// Contains reports whether id is indexed.
func (i *Index) Contains(id string) bool {
	for _, v := range i.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Nearest returns the id with the highest cosine similarity to query.
func (i *Index) Nearest(query []float32) (string, float64, error) {
	if i.Len() == 0 {
		return "", 0, ErrEmptyIndex
	}
	if len(query) != i.dim {
		return "", 0, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), i.dim)
	}
	qn := norm(query)
	if qn == 0 {
		return "", 0, ErrDegenerateVector
	}

	best := -1
	bestScore := math.Inf(-1)
	for k, vec := range i.vecs {
		score := dot(query, vec) / (qn * i.norms[k])
		if score > bestScore {
			best = k
			bestScore = score
		}
	}

	return i.ids[best], bestScore, nil
}

// CosineSimilarity returns dot(a,b) / (|a| * |b|).
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0, ErrDegenerateVector
	}
	return dot(a, b) / (na * nb), nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for k := range a {
		sum += float64(a[k]) * float64(b[k])
	}
	return sum
}

func norm(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}
