package documents_test

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// supplierStubs y companyStubs completan los métodos que las pruebas no usan.
type supplierStubs struct{}

func (supplierStubs) Create(context.Context, *entity.Supplier) error { return nil }
func (supplierStubs) GetByCompanyAndRIF(context.Context, string, string) (*entity.Supplier, error) {
	return nil, nil
}
func (supplierStubs) ListByCompany(context.Context, string, int, int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (supplierStubs) Update(context.Context, *entity.Supplier) error { return nil }
func (supplierStubs) Delete(context.Context, string) error           { return nil }

type companyStubs struct{}

func (companyStubs) Create(context.Context, *entity.Company) error { return nil }
func (companyStubs) GetByRIF(context.Context, string) (*entity.Company, error) {
	return nil, nil
}
func (companyStubs) List(context.Context, int, int) ([]*entity.Company, error) { return nil, nil }
func (companyStubs) HasActiveModule(context.Context, string, string) (bool, error) {
	return true, nil
}
