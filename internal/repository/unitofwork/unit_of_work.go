package unitofwork

import (
	"context"

	"escapadas-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	KnowledgeFragmentRepository() contract.KnowledgeFragmentRepository
	InteractionRepository() contract.InteractionRepository
}
