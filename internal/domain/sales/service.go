package sales

import (
	"context"

	"ventapos/internal/core/id"
	"ventapos/internal/domain"
)

// Service is the read side for committed sales. Writing goes through
// the checkout engine only.
type Service struct {
	repo Repository
}

// NewService creates the sales read service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns a sale with its lines loaded.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetLines(ctx, saleID)
	if err != nil {
		return nil, err
	}
	sale.Lines = make([]*SaleLine, 0, len(rows))
	for i := range rows {
		line := rows[i].SaleLine
		sale.Lines = append(sale.Lines, &line)
	}
	return sale, nil
}

// GetLines returns the display rows of a sale in input order.
func (s *Service) GetLines(ctx context.Context, saleID id.ID) ([]SaleLineRow, error) {
	if _, err := s.repo.GetByID(ctx, saleID); err != nil {
		return nil, err
	}
	return s.repo.GetLines(ctx, saleID)
}

// List returns sale headers, newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}
