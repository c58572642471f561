package contract

import (
	"context"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/repository/specification"
)

type KnowledgeFragmentRepository interface {
	// UpsertBulk inserts or replaces fragments keyed by (universe, fragment key).
	UpsertBulk(ctx context.Context, fragments []*entity.KnowledgeFragment) error
	DeleteByUniverse(ctx context.Context, universe string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeFragment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
