package unitofwork

import (
	"context"
	"errors"
	"testing"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/repository/contract"
	"escapadas-chatbot-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
)

type fakeFragmentRepo struct {
	deleted   []string
	upserted  int
	upsertErr error
}

func (f *fakeFragmentRepo) UpsertBulk(_ context.Context, fragments []*entity.KnowledgeFragment) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted += len(fragments)
	return nil
}

func (f *fakeFragmentRepo) DeleteByUniverse(_ context.Context, universe string) error {
	f.deleted = append(f.deleted, universe)
	return nil
}

func (f *fakeFragmentRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.KnowledgeFragment, error) {
	return nil, nil
}

func (f *fakeFragmentRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeUnitOfWork struct {
	repo                         *fakeFragmentRepo
	began, committed, rolledBack bool
}

func (u *fakeUnitOfWork) Begin(context.Context) error { u.began = true; return nil }
func (u *fakeUnitOfWork) Commit() error               { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error             { u.rolledBack = true; return nil }

func (u *fakeUnitOfWork) KnowledgeFragmentRepository() contract.KnowledgeFragmentRepository {
	return u.repo
}

func (u *fakeUnitOfWork) InteractionRepository() contract.InteractionRepository {
	return nil
}

func TestReplaceUniverseCommits(t *testing.T) {
	uow := &fakeUnitOfWork{repo: &fakeFragmentRepo{}}
	err := ReplaceUniverse(context.Background(), uow, "faq", []*entity.KnowledgeFragment{{FragmentKey: "a"}, {FragmentKey: "b"}})

	assert.NoError(t, err)
	assert.True(t, uow.began)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
	assert.Equal(t, []string{"faq"}, uow.repo.deleted)
	assert.Equal(t, 2, uow.repo.upserted)
}

func TestReplaceUniverseRollsBackOnFailure(t *testing.T) {
	uow := &fakeUnitOfWork{repo: &fakeFragmentRepo{upsertErr: errors.New("constraint violation")}}
	err := ReplaceUniverse(context.Background(), uow, "chunks", []*entity.KnowledgeFragment{{FragmentKey: "a"}})

	assert.ErrorContains(t, err, "upload chunks")
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
}
