package implementation

import (
	"context"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/mapper"
	"escapadas-chatbot-be/internal/model"
	"escapadas-chatbot-be/internal/repository/contract"
	"escapadas-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 100

type KnowledgeFragmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeFragmentMapper
}

func NewKnowledgeFragmentRepository(db *gorm.DB) contract.KnowledgeFragmentRepository {
	return &KnowledgeFragmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeFragmentMapper(),
	}
}

func (r *KnowledgeFragmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeFragmentRepositoryImpl) UpsertBulk(ctx context.Context, fragments []*entity.KnowledgeFragment) error {
	if len(fragments) == 0 {
		return nil
	}
	models := r.mapper.ToModels(fragments)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "universe"}, {Name: "fragment_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "media_ref", "embedding", "metadata", "updated_at"}),
		}).CreateInBatches(models, upsertBatchSize).Error
	})
}

func (r *KnowledgeFragmentRepositoryImpl) DeleteByUniverse(ctx context.Context, universe string) error {
	return r.db.WithContext(ctx).Where("universe = ?", universe).Delete(&model.KnowledgeFragment{}).Error
}

func (r *KnowledgeFragmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeFragment, error) {
	var models []*model.KnowledgeFragment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *KnowledgeFragmentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.KnowledgeFragment{}).Count(&count).Error
	return count, err
}
