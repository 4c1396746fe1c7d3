package service

import (
	"context"
	"errors"
	"time"

	"github.com/expensio/backend/internal/common/clock"
	commoncrypto "github.com/expensio/backend/internal/common/crypto"
	commonerrors "github.com/expensio/backend/internal/common/errors"
	"github.com/expensio/backend/internal/common/logger"
	"github.com/expensio/backend/internal/expense/domain"
	"github.com/expensio/backend/internal/expense/repository"
	userdomain "github.com/expensio/backend/internal/user/domain"
)

// ExpenseService owns every read and mutation of expense records. All
// operations take the owner identity as an explicit parameter resolved
// from the caller's token; nothing here reads ambient request state.
type ExpenseService struct {
	repo        repository.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

type ExpenseServiceDeps struct {
	Repo        repository.Repository
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

func NewExpenseService(deps ExpenseServiceDeps) *ExpenseService {
	return &ExpenseService{
		repo:        deps.Repo,
		idGenerator: deps.IDGenerator,
		clock:       deps.Clock,
		log:         deps.Log,
	}
}

type CreateInput struct {
	AmountCents int64
	Category    domain.Category
	Date        time.Time
	Description string
}

type UpdateInput struct {
	AmountCents *int64
	Category    *domain.Category
	Date        *time.Time
	Description *string
}

func (s *ExpenseService) Create(ctx context.Context, ownerID userdomain.ID, input CreateInput) (domain.Expense, error) {
	// The HTTP validator already checks membership; re-check here so a
	// bad category can never reach the store through another caller.
	if !input.Category.Valid() {
		return domain.Expense{}, ErrInvalidCategory
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"action":   "expense_create_id_failed",
		}).Errorf("create expense failed: id generation error: %v", err)
		return domain.Expense{}, err
	}

	expense := domain.Expense{
		ID:          domain.ID(id),
		OwnerID:     ownerID,
		AmountCents: input.AmountCents,
		Category:    input.Category,
		Date:        input.Date,
		Description: input.Description,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"action":   "expense_create_failed",
		}).Errorf("create expense failed: %v", err)
		return domain.Expense{}, commonerrors.ErrInternalError.WithCause(err)
	}

	incrementExpensesCreated()
	s.log.WithFields(ctx, logger.Fields{
		"owner_id":   string(ownerID),
		"expense_id": id,
		"action":     "expense_created",
	}).Info("expense created")

	return expense, nil
}

func (s *ExpenseService) Find(ctx context.Context, ownerID userdomain.ID, filter Filter) ([]domain.Expense, error) {
	query, filterKind := resolve(ownerID, filter, s.clock.Now())

	expenses, err := s.repo.Find(ctx, query)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"action":   "expense_find_failed",
		}).Errorf("find expenses failed: %v", err)
		return nil, commonerrors.ErrInternalError.WithCause(err)
	}

	incrementExpenseQueries(filterKind)
	return expenses, nil
}

func (s *ExpenseService) FindOne(ctx context.Context, id domain.ID, ownerID userdomain.ID) (domain.Expense, error) {
	expense, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return domain.Expense{}, ErrExpenseNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"owner_id":   string(ownerID),
			"expense_id": string(id),
			"action":     "expense_lookup_failed",
		}).Errorf("find expense failed: %v", err)
		return domain.Expense{}, commonerrors.ErrInternalError.WithCause(err)
	}
	return expense, nil
}

// Update applies only the fields present in input and returns the
// record re-read from the store, so the caller observes persisted
// state rather than a locally patched copy.
func (s *ExpenseService) Update(ctx context.Context, id domain.ID, ownerID userdomain.ID, input UpdateInput) (domain.Expense, error) {
	if input.Category != nil && !input.Category.Valid() {
		return domain.Expense{}, ErrInvalidCategory
	}

	if _, err := s.FindOne(ctx, id, ownerID); err != nil {
		return domain.Expense{}, err
	}

	patch := repository.Patch{
		AmountCents: input.AmountCents,
		Category:    input.Category,
		Date:        input.Date,
		Description: input.Description,
	}

	if err := s.repo.Update(ctx, id, ownerID, patch); err != nil {
		// A concurrent delete between the check and the write surfaces
		// as not-found again, not as a special race case.
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return domain.Expense{}, ErrExpenseNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"owner_id":   string(ownerID),
			"expense_id": string(id),
			"action":     "expense_update_failed",
		}).Errorf("update expense failed: %v", err)
		return domain.Expense{}, commonerrors.ErrInternalError.WithCause(err)
	}

	updated, err := s.FindOne(ctx, id, ownerID)
	if err != nil {
		return domain.Expense{}, err
	}

	incrementExpensesUpdated()
	s.log.WithFields(ctx, logger.Fields{
		"owner_id":   string(ownerID),
		"expense_id": string(id),
		"action":     "expense_updated",
	}).Info("expense updated")

	return updated, nil
}

// Remove deletes the expense and returns its last-known state. A second
// remove of the same id fails with not-found.
func (s *ExpenseService) Remove(ctx context.Context, id domain.ID, ownerID userdomain.ID) (domain.Expense, error) {
	expense, err := s.FindOne(ctx, id, ownerID)
	if err != nil {
		return domain.Expense{}, err
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return domain.Expense{}, ErrExpenseNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"owner_id":   string(ownerID),
			"expense_id": string(id),
			"action":     "expense_delete_failed",
		}).Errorf("delete expense failed: %v", err)
		return domain.Expense{}, commonerrors.ErrInternalError.WithCause(err)
	}

	incrementExpensesDeleted()
	s.log.WithFields(ctx, logger.Fields{
		"owner_id":   string(ownerID),
		"expense_id": string(id),
		"action":     "expense_deleted",
	}).Info("expense deleted")

	return expense, nil
}
