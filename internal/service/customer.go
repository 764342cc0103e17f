package service

import (
	"context"
	"fmt"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

type customerService struct {
	store repository.Store
}

func NewCustomerService(store repository.Store) CustomerService {
	return &customerService{store: store}
}

func (s *customerService) CreateCustomer(ctx context.Context, actor authz.Actor, customer *domain.Customer) error {
	if err := authz.Require(actor, authz.ActionManageCustomers); err != nil {
		return err
	}
	if customer.FirstName == "" || customer.LastName == "" {
		return fmt.Errorf("customer name is required: %w", domain.ErrInvalidAmount)
	}
	return s.store.Repos().Customers.Create(ctx, customer)
}

func (s *customerService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.store.Repos().Customers.GetByID(ctx, id)
}

func (s *customerService) UpdateCustomer(ctx context.Context, actor authz.Actor, customer *domain.Customer) error {
	if err := authz.Require(actor, authz.ActionManageCustomers); err != nil {
		return err
	}
	return s.store.Repos().Customers.Update(ctx, customer)
}

func (s *customerService) SearchCustomers(ctx context.Context, query string, page, pageSize int) ([]domain.Customer, int, error) {
	return s.store.Repos().Customers.Search(ctx, query, page, pageSize)
}

// BlacklistCustomer flags the customer. The flag surfaces as a warning
// on new contracts and reservations but never blocks them; the desk
// agent makes the call.
func (s *customerService) BlacklistCustomer(ctx context.Context, actor authz.Actor, id int64, reason string) error {
	if err := authz.Require(actor, authz.ActionBlacklistCustomer); err != nil {
		return err
	}
	if reason == "" {
		return fmt.Errorf("blacklist reason is required: %w", domain.ErrInvalidAmount)
	}
	return s.store.Repos().Customers.SetBlacklist(ctx, id, true, reason)
}

func (s *customerService) UnblacklistCustomer(ctx context.Context, actor authz.Actor, id int64) error {
	if err := authz.Require(actor, authz.ActionBlacklistCustomer); err != nil {
		return err
	}
	return s.store.Repos().Customers.SetBlacklist(ctx, id, false, "")
}
