package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/repository"
)

// PackService serves the read side of packs: detail pages, pending queues,
// department history, lineage traces and filtered listings. All mutations go
// through PackFlowService.
type PackService struct {
	packRepo    *repository.PackRepository
	productRepo *repository.ProductRepository
}

// NewPackService constructs a PackService.
func NewPackService(packRepo *repository.PackRepository, productRepo *repository.ProductRepository) *PackService {
	return &PackService{packRepo: packRepo, productRepo: productRepo}
}

// GetDetail returns a pack with its process history and product.
func (s *PackService) GetDetail(ctx context.Context, id uuid.UUID) (*models.ProductPack, error) {
	pack, err := s.packRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, pack.ProductID)
	if err != nil {
		return nil, err
	}
	pack.Product = product
	return pack, nil
}

// GetPending returns the department's queue of unconfirmed deliveries.
func (s *PackService) GetPending(ctx context.Context, departmentID uuid.UUID) ([]models.ProductPack, error) {
	packs, err := s.packRepo.GetPendingByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	return s.attachProducts(ctx, packs)
}

// GetLineage traces the full split history of a pack from its lineage root.
// Accepts any pack of the lineage and resolves the root first.
func (s *PackService) GetLineage(ctx context.Context, packID uuid.UUID) ([]models.ProductPack, error) {
	pack, err := s.packRepo.GetByID(ctx, packID)
	if err != nil {
		return nil, err
	}
	return s.packRepo.GetLineage(ctx, pack.RootID())
}

// List returns packs matching the filter.
func (s *PackService) List(ctx context.Context, filter *repository.PackFilter) (*repository.PackListResult, error) {
	res, err := s.packRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	res.Packs, err = s.attachProducts(ctx, res.Packs)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetHistory returns the processes recorded at a department.
func (s *PackService) GetHistory(ctx context.Context, departmentID uuid.UUID, page, limit int) ([]models.ProductProcess, int, error) {
	return s.packRepo.GetHistoryByDepartment(ctx, departmentID, page, limit)
}

func (s *PackService) attachProducts(ctx context.Context, packs []models.ProductPack) ([]models.ProductPack, error) {
	if len(packs) == 0 {
		return packs, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(packs))
	ids := make([]uuid.UUID, 0, len(packs))
	for i := range packs {
		if _, ok := seen[packs[i].ProductID]; !ok {
			seen[packs[i].ProductID] = struct{}{}
			ids = append(ids, packs[i].ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range packs {
		packs[i].Product = byID[packs[i].ProductID]
	}
	return packs, nil
}
