package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/flow"
	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/repository"
)

// DepartmentService manages departments and answers topology questions
// against the actual department rows.
type DepartmentService struct {
	deptRepo *repository.DepartmentRepository
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(deptRepo *repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{deptRepo: deptRepo}
}

// Create registers a department. The name must resolve to a known role so a
// typo cannot introduce an unreachable department.
func (s *DepartmentService) Create(ctx context.Context, name string) (*models.Department, error) {
	if _, err := flow.Normalize(name); err != nil {
		return nil, err
	}
	d := &models.Department{ID: uuid.New(), Name: name}
	if err := s.deptRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// GetByID returns one department.
func (s *DepartmentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	return s.deptRepo.GetByID(ctx, id)
}

// GetAll returns all departments.
func (s *DepartmentService) GetAll(ctx context.Context) ([]models.Department, error) {
	return s.deptRepo.GetAll(ctx)
}

// Update renames a department; the new name must still be a known role.
func (s *DepartmentService) Update(ctx context.Context, id uuid.UUID, name string) (*models.Department, error) {
	if _, err := flow.Normalize(name); err != nil {
		return nil, err
	}
	d := &models.Department{ID: id, Name: name}
	if err := s.deptRepo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a department.
func (s *DepartmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deptRepo.Delete(ctx, id)
}

// NextDepartments resolves the legal next steps for a department to the
// department rows that actually exist. A terminal department yields an empty
// list.
func (s *DepartmentService) NextDepartments(ctx context.Context, id uuid.UUID) ([]models.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := flow.Next(dept.Name)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return []models.Department{}, nil
	}

	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return s.deptRepo.GetByNames(ctx, names)
}
