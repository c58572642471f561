package sink

import (
	"context"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/repository/contract"
)

// RepositorySink stores interactions in Postgres.
type RepositorySink struct {
	repo contract.InteractionRepository
}

func NewRepositorySink(repo contract.InteractionRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Name() string {
	return "database"
}

func (s *RepositorySink) Record(ctx context.Context, interaction *entity.Interaction) error {
	// The repository writes back generated fields; keep the caller's copy intact.
	row := *interaction
	return s.repo.Create(ctx, &row)
}
