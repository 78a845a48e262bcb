package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devmojahid/restu-food-sub005/internal/inventory/dto"
	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindVariation(ctx context.Context, restaurantID, productID, variationID string) (*model.Variation, error) {
	var v model.Variation
	query := r.DB.Rebind(`
        SELECT v.* FROM product_variations v
        JOIN products p ON p.id = v.product_id
        WHERE v.id = ? AND v.product_id = ? AND p.restaurant_id = ?
        LIMIT 1
    `)
	err := r.DB.GetContext(ctx, &v, query, variationID, productID, restaurantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) ListLowStock(ctx context.Context, f *dto.LowStockFilters) ([]model.Variation, int, error) {
	items := []model.Variation{}
	var count int

	where := `
        FROM product_variations v
        JOIN products p ON p.id = v.product_id
        WHERE p.restaurant_id = ? AND v.manage_stock = ? AND v.stock <= ?
    `
	args := []any{f.RestaurantID, true, f.Threshold}

	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind("SELECT count(*)"+where), args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT v.*" + where + " ORDER BY v.stock ASC, v.id"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) HasMovement(ctx context.Context, restaurantID, variationID, referenceType, referenceID string) (bool, error) {
	var count int
	query := r.DB.Rebind(`
        SELECT count(*) FROM stock_movements
        WHERE restaurant_id = ? AND variation_id = ? AND reference_type = ? AND reference_id = ?
    `)
	if err := r.DB.GetContext(ctx, &count, query, restaurantID, variationID, referenceType, referenceID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	items := []model.StockMovement{}
	var count int

	conditions := []string{}
	args := map[string]any{}

	if f.RestaurantID != "" {
		conditions = append(conditions, "restaurant_id = :restaurant_id")
		args["restaurant_id"] = f.RestaurantID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.VariationID != "" {
		conditions = append(conditions, "variation_id = :variation_id")
		args["variation_id"] = f.VariationID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = f.EndDate.UTC()
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC, id"
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
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, v *model.Variation, movement *model.StockMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		tx.Rebind(`UPDATE product_variations SET stock = ?, updated_at = ? WHERE id = ? AND product_id = ?`),
		v.Stock, v.UpdatedAt, v.ID, v.ProductID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	insertLogQuery := `
        INSERT INTO stock_movements (
            id, restaurant_id, product_id, variation_id,
            movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :restaurant_id, :product_id, :variation_id,
            :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	if _, err = sqlx.NamedExecContext(ctx, tx, insertLogQuery, movement); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}

	return tx.Commit()
}
