package knowledge

import (
	"context"
	"sort"

	"escapadas-chatbot-be/internal/repository/contract"
	"escapadas-chatbot-be/internal/repository/specification"
)

// RepositorySource loads universes uploaded to Postgres by the ingest job.
type RepositorySource struct {
	repo contract.KnowledgeFragmentRepository
}

func NewRepositorySource(repo contract.KnowledgeFragmentRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

func (s *RepositorySource) LoadUniverse(ctx context.Context, name string) ([]Fragment, error) {
	rows, err := s.repo.FindAll(ctx,
		specification.ByUniverse{Universe: name},
		specification.OrderBy{Field: "fragment_key"},
	)
	if err != nil {
		return nil, err
	}

	fragments := make([]Fragment, len(rows))
	for i, row := range rows {
		fragments[i] = Fragment{
			ID:        row.FragmentKey,
			Embedding: row.Embedding,
			Content:   row.Content,
			MediaRef:  row.MediaRef,
		}
	}
	// Keep the same order as the file source regardless of database collation.
	sort.Slice(fragments, func(i, j int) bool { return fragments[i].ID < fragments[j].ID })
	return fragments, nil
}
