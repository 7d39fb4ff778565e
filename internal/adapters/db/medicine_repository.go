// internal/adapters/db/medicine_repository.go
package db

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

type medicineRepository struct {
	q DBTX
}

var _ ports.MedicineRepository = (*medicineRepository)(nil)

func medicineSelect() squirrel.SelectBuilder {
	return psql.Select(
		"m.id", "m.name", "m.manufacturer_id", "mf.name", "m.unit_id", "u.name",
		"m.category_id", "c.name", "m.sell_price", "m.dosage", "m.description",
		"m.created_at", "m.updated_at",
	).
		From("medicines m").
		Join("manufacturers mf ON mf.id = m.manufacturer_id").
		Join("units u ON u.id = m.unit_id").
		Join("categories c ON c.id = m.category_id")
}

func scanMedicine(row pgx.Row) (*domain.Medicine, error) {
	m := &domain.Medicine{}
	err := row.Scan(
		&m.ID, &m.Name, &m.ManufacturerID, &m.ManufacturerName, &m.UnitID, &m.UnitName,
		&m.CategoryID, &m.CategoryName, &m.SellPrice, &m.Dosage, &m.Description,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *medicineRepository) Create(ctx context.Context, m *domain.Medicine) error {
	query := `
		INSERT INTO medicines (name, manufacturer_id, unit_id, category_id, sell_price, dosage, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		m.Name, m.ManufacturerID, m.UnitID, m.CategoryID, m.SellPrice, m.Dosage, m.Description,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewConflict("medicine %q already exists for this manufacturer", m.Name)
		}
		return fmt.Errorf("failed to create medicine: %w", translate(err, "medicine", 0))
	}
	return nil
}

func (r *medicineRepository) GetByID(ctx context.Context, id int64) (*domain.Medicine, error) {
	query, args, err := medicineSelect().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	m, err := scanMedicine(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "medicine", id)
	}
	return m, nil
}

func (r *medicineRepository) FindByNameAndManufacturer(ctx context.Context, name string, manufacturerID int64) (*domain.Medicine, error) {
	query, args, err := medicineSelect().
		Where(squirrel.Eq{"m.name": name, "m.manufacturer_id": manufacturerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	m, err := scanMedicine(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "medicine", 0)
	}
	return m, nil
}

func (r *medicineRepository) List(ctx context.Context, search string, limit, offset int) ([]domain.Medicine, error) {
	qb := medicineSelect().OrderBy("m.name ASC")
	if search != "" {
		qb = qb.Where(squirrel.ILike{"m.name": "%" + search + "%"})
	}
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return scanMany(rows, scanMedicine)
}

func (r *medicineRepository) Update(ctx context.Context, m *domain.Medicine) error {
	query := `
		UPDATE medicines SET
			name = $2, manufacturer_id = $3, unit_id = $4, category_id = $5,
			sell_price = $6, dosage = $7, description = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.q.QueryRow(ctx, query,
		m.ID, m.Name, m.ManufacturerID, m.UnitID, m.CategoryID, m.SellPrice, m.Dosage, m.Description,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewConflict("medicine %q already exists for this manufacturer", m.Name)
		}
		return translate(err, "medicine", m.ID)
	}
	return nil
}

func (r *medicineRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return translate(err, "medicine", id)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("medicine", id)
	}
	return nil
}
