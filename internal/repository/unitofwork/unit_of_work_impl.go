package unitofwork

import (
	"context"
	"fmt"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/repository/contract"
	"escapadas-chatbot-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) KnowledgeFragmentRepository() contract.KnowledgeFragmentRepository {
	return implementation.NewKnowledgeFragmentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) InteractionRepository() contract.InteractionRepository {
	return implementation.NewInteractionRepository(u.getDB())
}

// ReplaceUniverse swaps every fragment of a universe in one transaction, so
// readers never observe a half-uploaded universe.
func ReplaceUniverse(ctx context.Context, uow UnitOfWork, universe string, fragments []*entity.KnowledgeFragment) (err error) {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	repo := uow.KnowledgeFragmentRepository()
	if err = repo.DeleteByUniverse(ctx, universe); err != nil {
		return fmt.Errorf("clear %s: %w", universe, err)
	}
	if err = repo.UpsertBulk(ctx, fragments); err != nil {
		return fmt.Errorf("upload %s: %w", universe, err)
	}
	return uow.Commit()
}
