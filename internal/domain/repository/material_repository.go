package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Material, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
	Delete(ctx context.Context, id string) error
}
