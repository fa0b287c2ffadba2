package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de materiales.
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, company_id, code, name, description, unit, is_exempt, created_at, updated_at`

// Create persiste un material. El código es único por empresa.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `INSERT INTO materials (` + materialColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.Code, m.Name, nullIfEmpty(m.Description), m.Unit, m.IsExempt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material; nil, nil si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// GetByCompanyAndCode busca por código dentro de la empresa.
func (r *MaterialRepo) GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE company_id = $1 AND code = $2`
	m, err := scanMaterial(r.q.QueryRow(ctx, query, companyID, code))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material by code: %w", err)
	}
	return m, nil
}

// ListByCompany lista materiales por código.
func (r *MaterialRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE company_id = $1 ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Update actualiza el material.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials SET code = $2, name = $3, description = $4, unit = $5, is_exempt = $6, updated_at = $7
		 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, m.Code, m.Name, nullIfEmpty(m.Description), m.Unit, m.IsExempt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el material; si tiene historial o líneas asociadas devuelve ErrConflict.
func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMaterial(row pgxScanner) (*entity.Material, error) {
	var (
		m    entity.Material
		desc *string
	)
	if err := row.Scan(&m.ID, &m.CompanyID, &m.Code, &m.Name, &desc, &m.Unit, &m.IsExempt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Description = derefString(desc)
	return &m, nil
}
