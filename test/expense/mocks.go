package expense

import (
	"context"

	"github.com/expensio/backend/internal/expense/domain"
	"github.com/expensio/backend/internal/expense/repository"
	userdomain "github.com/expensio/backend/internal/user/domain"
)

type mockExpenseRepo struct {
	createFunc           func(ctx context.Context, expense domain.Expense) error
	findFunc             func(ctx context.Context, q repository.Query) ([]domain.Expense, error)
	findByIDAndOwnerFunc func(ctx context.Context, id domain.ID, ownerID userdomain.ID) (domain.Expense, error)
	updateFunc           func(ctx context.Context, id domain.ID, ownerID userdomain.ID, patch repository.Patch) error
	deleteFunc           func(ctx context.Context, id domain.ID, ownerID userdomain.ID) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense domain.Expense) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, expense)
	}
	return nil
}

func (m *mockExpenseRepo) Find(ctx context.Context, q repository.Query) ([]domain.Expense, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockExpenseRepo) FindByIDAndOwner(ctx context.Context, id domain.ID, ownerID userdomain.ID) (domain.Expense, error) {
	if m.findByIDAndOwnerFunc != nil {
		return m.findByIDAndOwnerFunc(ctx, id, ownerID)
	}
	return domain.Expense{}, repository.ErrExpenseNotFound
}

func (m *mockExpenseRepo) Update(ctx context.Context, id domain.ID, ownerID userdomain.ID, patch repository.Patch) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, ownerID, patch)
	}
	return nil
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id domain.ID, ownerID userdomain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, ownerID)
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "00000000-0000-0000-0000-000000000002", nil
}
