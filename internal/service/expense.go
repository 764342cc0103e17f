package service

import (
	"context"
	"fmt"
	"time"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

type expenseService struct {
	store repository.Store
}

func NewExpenseService(store repository.Store) ExpenseService {
	return &expenseService{store: store}
}

func (s *expenseService) RecordExpense(ctx context.Context, actor authz.Actor, expense *domain.Expense) error {
	if err := authz.Require(actor, authz.ActionManageExpenses); err != nil {
		return err
	}
	if expense.AmountCents <= 0 {
		return fmt.Errorf("expense amount must be positive: %w", domain.ErrInvalidAmount)
	}
	if expense.IncurredOn.IsZero() {
		expense.IncurredOn = time.Now()
	}
	if _, err := s.store.Repos().Vehicles.GetByID(ctx, expense.VehicleID); err != nil {
		return err
	}
	return s.store.Repos().Expenses.Create(ctx, expense)
}

func (s *expenseService) GetExpense(ctx context.Context, id int64) (*domain.Expense, error) {
	return s.store.Repos().Expenses.GetByID(ctx, id)
}

func (s *expenseService) ListExpenses(ctx context.Context, vehicleID int64, from, to time.Time, page, pageSize int) ([]domain.Expense, int, error) {
	return s.store.Repos().Expenses.List(ctx, vehicleID, from, to, page, pageSize)
}
