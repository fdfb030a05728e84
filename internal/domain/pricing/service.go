package pricing

import (
	"context"

	"ventapos/internal/core/id"
	"ventapos/internal/core/tx"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
	"ventapos/pkg/logger"
)

// Service manages price rows and the active-price switch.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates the pricing service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// GetActivePrice returns the single active price for a product.
// Fails with NoActivePrice when the product has none.
func (s *Service) GetActivePrice(ctx context.Context, productID id.ID) (*Price, error) {
	return s.repo.GetActiveByProduct(ctx, productID)
}

// Activate makes the given price the product's active one, deactivating
// any previously active price in the same atomic switch. Activating an
// already-active price succeeds without changes.
func (s *Service) Activate(ctx context.Context, priceID id.ID) (*Price, error) {
	var activated *Price
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		price, err := s.repo.GetByID(ctx, priceID)
		if err != nil {
			return err
		}
		if _, err := s.repo.Activate(ctx, price.ProductID, price.ID); err != nil {
			return err
		}
		price.Active = true
		activated = price
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "price activated",
		"price_id", activated.ID, "product_id", activated.ProductID, "amount", activated.Amount)
	return activated, nil
}

// Create inserts a new price row and, when activate is set, makes it the
// product's active price in the same transaction.
func (s *Service) Create(ctx context.Context, productID id.ID, amount types.Money, currency string, activate bool) (*Price, error) {
	price := New(productID, amount, currency)
	if err := price.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, price); err != nil {
			return err
		}
		if !activate {
			return nil
		}
		if _, err := s.repo.Activate(ctx, price.ProductID, price.ID); err != nil {
			return err
		}
		price.Active = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "price created",
		"price_id", price.ID, "product_id", productID, "amount", amount, "active", price.Active)
	return price, nil
}

// ListByProduct returns all price rows for a product.
func (s *Service) ListByProduct(ctx context.Context, productID id.ID, filter domain.ListFilter) (domain.ListResult[*Price], error) {
	return s.repo.ListByProduct(ctx, productID, filter)
}

// Delete removes an inactive price row.
func (s *Service) Delete(ctx context.Context, priceID id.ID) error {
	if err := s.repo.Delete(ctx, priceID); err != nil {
		return err
	}
	logger.Info(ctx, "price deleted", "price_id", priceID)
	return nil
}
