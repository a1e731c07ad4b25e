package flow

import (
	"context"

	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/models"
)

// Tx is the mutation surface available inside one atomic flow transaction.
// Implementations must guarantee that GetPackForUpdate serializes concurrent
// transactions touching the same pack.
type Tx interface {
	GetPackForUpdate(ctx context.Context, id uuid.UUID) (*models.ProductPack, error)
	CreatePack(ctx context.Context, p *models.ProductPack) error
	CreateProcess(ctx context.Context, pr *models.ProductProcess) error
	DeletePendingProcess(ctx context.Context, packID uuid.UUID) (bool, error)
	HasPendingProcess(ctx context.Context, packID uuid.UUID) (bool, error)
	CumulativeCounts(ctx context.Context, packID uuid.UUID) (sent, invalid int64, err error)
	MarkPackOver(ctx context.Context, packID uuid.UUID, over bool) error
}

// Store is the persistent collaborator the flow engine commits through.
// Everything inside the InTx callback happens or nothing does.
type Store interface {
	InTx(ctx context.Context, fn func(Tx) error) error
	GetPack(ctx context.Context, id uuid.UUID) (*models.ProductPack, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.OutsourceCompany, error)
}
