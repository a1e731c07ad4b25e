package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/repository"
	"github.com/fabrikasoft/fabrika-api/internal/storage"
)

// ProductService manages the garment catalog: models, their color/size
// attribute sets, and reference files held in object storage.
type ProductService struct {
	productRepo *repository.ProductRepository
	files       *storage.Client
}

// NewProductService constructs a ProductService.
func NewProductService(productRepo *repository.ProductRepository, files *storage.Client) *ProductService {
	return &ProductService{productRepo: productRepo, files: files}
}

// CreateProductInput describes a new garment model.
type CreateProductInput struct {
	Model    string
	ColorIDs []uuid.UUID
	SizeIDs  []uuid.UUID
}

// Create registers a product with its attribute sets.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	p := &models.Product{ID: uuid.New(), Model: in.Model}
	if err := s.productRepo.Create(ctx, p, in.ColorIDs, in.SizeIDs); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, p.ID)
}

// GetByID returns a product with attributes and presigned file URLs.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.presignFiles(ctx, p)
	return p, nil
}

// GetAll returns products, optionally filtered by model substring.
func (s *ProductService) GetAll(ctx context.Context, model string) ([]models.Product, error) {
	products, err := s.productRepo.GetAll(ctx, model)
	if err != nil {
		return nil, err
	}
	for i := range products {
		s.presignFiles(ctx, &products[i])
	}
	return products, nil
}

// UpdateAttributes replaces a product's color and size sets.
func (s *ProductService) UpdateAttributes(ctx context.Context, id uuid.UUID, colorIDs, sizeIDs []uuid.UUID) (*models.Product, error) {
	if err := s.productRepo.UpdateAttributes(ctx, id, colorIDs, sizeIDs); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// UploadFile stores a reference file for a product and records it.
func (s *ProductService) UploadFile(ctx context.Context, productID uuid.UUID, r io.Reader, fileName, contentType string, size int64) (*models.ProductFile, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	f := &models.ProductFile{
		ID:          uuid.New(),
		ProductID:   productID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
	}
	f.ObjectKey = fmt.Sprintf("products/%s/%s%s", productID, f.ID, filepath.Ext(fileName))

	if err := s.files.Upload(ctx, f.ObjectKey, r, size, contentType); err != nil {
		return nil, err
	}
	if err := s.productRepo.CreateFile(ctx, f); err != nil {
		// Orphaned object cleanup; failing here only leaks one object.
		if rmErr := s.files.Remove(ctx, f.ObjectKey); rmErr != nil {
			log.Warn().Err(rmErr).Str("objectKey", f.ObjectKey).Msg("failed to remove orphaned file object")
		}
		return nil, err
	}

	if url, err := s.files.PresignedURL(ctx, f.ObjectKey); err == nil {
		f.URL = url
	}
	return f, nil
}

// DeleteFile removes the file record and its stored object.
func (s *ProductService) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	f, err := s.productRepo.DeleteFile(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.files.Remove(ctx, f.ObjectKey); err != nil {
		log.Warn().Err(err).Str("objectKey", f.ObjectKey).Msg("failed to remove file object")
	}
	return nil
}

func (s *ProductService) presignFiles(ctx context.Context, p *models.Product) {
	for i := range p.Files {
		url, err := s.files.PresignedURL(ctx, p.Files[i].ObjectKey)
		if err != nil {
			log.Warn().Err(err).Str("objectKey", p.Files[i].ObjectKey).Msg("failed to presign file url")
			continue
		}
		p.Files[i].URL = url
	}
}
