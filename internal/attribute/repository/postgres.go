package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devmojahid/restu-food-sub005/internal/attribute/dto"
	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, a *model.GlobalAttribute) error {
	query := `
        INSERT INTO global_attributes (id, restaurant_id, name, attr_values, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :restaurant_id, :name, :attr_values, :sort_order, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, a)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, restaurantID, id string) (*model.GlobalAttribute, error) {
	var attr model.GlobalAttribute
	query := r.DB.Rebind(`SELECT * FROM global_attributes WHERE id = ? AND restaurant_id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &attr, query, id, restaurantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &attr, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AttributeFilters) ([]model.GlobalAttribute, int, error) {
	attrs := []model.GlobalAttribute{}
	var count int

	conditions := []string{}
	args := map[string]any{}

	if f.RestaurantID != "" {
		conditions = append(conditions, "restaurant_id = :restaurant_id")
		args["restaurant_id"] = f.RestaurantID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM global_attributes"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM global_attributes" + whereClause + " ORDER BY sort_order ASC, name ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.SelectContext(ctx, &attrs, r.DB.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}

	return attrs, count, nil
}

func (r *PGRepository) Update(ctx context.Context, a *model.GlobalAttribute) error {
	query := `
        UPDATE global_attributes
        SET name = :name,
            attr_values = :attr_values,
            sort_order = :sort_order,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND restaurant_id = :restaurant_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, a)
	return err
}

// Delete leaves products untouched; their attributes keep the copied values.
func (r *PGRepository) Delete(ctx context.Context, restaurantID, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM global_attributes WHERE id = ? AND restaurant_id = ?"), id, restaurantID)
	return err
}

func (r *PGRepository) IsNameUnique(ctx context.Context, restaurantID, name, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM global_attributes WHERE restaurant_id = ? AND name = ?`
	args := []any{restaurantID, name}
	if excludeID != "" {
		query += ` AND id != ?`
		args = append(args, excludeID)
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(query), args...); err != nil {
		return false, err
	}
	return count == 0, nil
}
