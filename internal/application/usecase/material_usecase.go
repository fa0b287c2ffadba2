package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

const priceHistoryLimit = 50

// MaterialUseCase CRUD de materiales y consulta de su historial de precios.
type MaterialUseCase struct {
	repo    repository.MaterialRepository
	history repository.PriceHistoryRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository, history repository.PriceHistoryRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, history: history}
}

// Create crea un material. El código es único por empresa.
func (uc *MaterialUseCase) Create(ctx context.Context, companyID string, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	existing, err := uc.repo.GetByCompanyAndCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Unit == "" {
		in.Unit = "UND"
	}
	now := time.Now()
	m := &entity.Material{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        code,
		Name:        in.Name,
		Description: in.Description,
		Unit:        in.Unit,
		IsExempt:    in.IsExempt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// GetByID obtiene un material de la empresa.
func (uc *MaterialUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.MaterialResponse, error) {
	m, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// List lista materiales con paginación.
func (uc *MaterialUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.MaterialListResponse, error) {
	page.Normalize()
	if err := dto.Validate(page); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  page.Response(),
	}, nil
}

// Update modifica los campos presentes. El código no se cambia.
func (uc *MaterialUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	m, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Unit != nil {
		m.Unit = *in.Unit
	}
	if in.IsExempt != nil {
		m.IsExempt = *in.IsExempt
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Delete elimina un material de la empresa.
func (uc *MaterialUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.owned(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// PriceHistory precios pagados por el material, el más reciente primero.
func (uc *MaterialUseCase) PriceHistory(ctx context.Context, companyID, id string) ([]dto.PriceHistoryResponse, error) {
	if _, err := uc.owned(ctx, companyID, id); err != nil {
		return nil, err
	}
	list, err := uc.history.ListByMaterial(ctx, companyID, id, priceHistoryLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PriceHistoryResponse, 0, len(list))
	for _, h := range list {
		r := dto.PriceHistoryResponse{
			ID:         h.ID,
			SupplierID: h.SupplierID,
			UnitPrice:  h.UnitPrice,
			Currency:   h.Currency,
			OrderID:    h.OrderID,
			OrderKind:  string(h.OrderKind),
			CreatedAt:  h.CreatedAt,
		}
		if h.ExchangeRate.IsPositive() {
			rate := h.ExchangeRate
			r.ExchangeRate = &rate
		}
		out = append(out, r)
	}
	return out, nil
}

func (uc *MaterialUseCase) owned(ctx context.Context, companyID, id string) (*entity.Material, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if m.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return m, nil
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Unit:        m.Unit,
		IsExempt:    m.IsExempt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
