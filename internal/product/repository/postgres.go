package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// Create inserts the product row and p.Variations in one transaction.
func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, restaurant_id, category_id, sku, barcode, name, description,
            base_price, cost_price, tax_rate, has_variants, track_inventory,
            image_url, is_active, attributes, created_at, updated_at
        )
        VALUES (
            :id, :restaurant_id, :category_id, :sku, :barcode, :name, :description,
            :base_price, :cost_price, :tax_rate, :has_variants, :track_inventory,
            :image_url, :is_active, :attributes, :created_at, :updated_at
        )
    `
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := sqlx.NamedExecContext(ctx, tx, query, p); err != nil {
		return err
	}
	if err := upsertVariations(ctx, tx, p.ID, p.Variations); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, restaurantID, id string) (*model.Product, error) {
	var product model.Product
	query := r.DB.Rebind(`SELECT * FROM products WHERE id = ? AND restaurant_id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &product, query, id, restaurantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int

	conditions := []string{}
	args := map[string]any{}

	if f.RestaurantID != "" {
		conditions = append(conditions, "restaurant_id = :restaurant_id")
		args["restaurant_id"] = f.RestaurantID
	}
	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(LOWER(name) LIKE :search OR LOWER(sku) LIKE :search OR LOWER(barcode) LIKE :search)")
		args["search"] = "%" + strings.ToLower(f.SearchQuery) + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	// Whitelisted to keep user input out of ORDER BY.
	orderBy := "created_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "base_price"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}
	orderBy += ", id"

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)
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
	if err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

const updateProductQuery = `
        UPDATE products
        SET category_id = :category_id,
            sku = :sku,
            barcode = :barcode,
            name = :name,
            description = :description,
            base_price = :base_price,
            cost_price = :cost_price,
            tax_rate = :tax_rate,
            has_variants = :has_variants,
            track_inventory = :track_inventory,
            image_url = :image_url,
            is_active = :is_active,
            attributes = :attributes,
            updated_at = :updated_at
        WHERE id = :id AND restaurant_id = :restaurant_id
    `

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	_, err := r.DB.NamedExecContext(ctx, updateProductQuery, p)
	return err
}

// Delete removes the product and its variations. Variations are deleted
// explicitly so the result does not depend on foreign key enforcement.
func (r *PGRepository) Delete(ctx context.Context, restaurantID, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM products WHERE id = ? AND restaurant_id = ?"), id, restaurantID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return tx.Commit()
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM product_variations WHERE product_id = ?"), id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, restaurantID, sku, excludeID string) (bool, error) {
	return r.isUnique(ctx, "sku", restaurantID, sku, excludeID)
}

func (r *PGRepository) IsBarcodeUnique(ctx context.Context, restaurantID, barcode, excludeID string) (bool, error) {
	if barcode == "" {
		return true, nil
	}
	return r.isUnique(ctx, "barcode", restaurantID, barcode, excludeID)
}

// column is one of the two fixed names above, never user input.
func (r *PGRepository) isUnique(ctx context.Context, column, restaurantID, value, excludeID string) (bool, error) {
	var count int
	query := fmt.Sprintf(`SELECT count(*) FROM products WHERE restaurant_id = ? AND %s = ?`, column)
	args := []any{restaurantID, value}
	if excludeID != "" {
		query += ` AND id != ?`
		args = append(args, excludeID)
	}

	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(query), args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) ListVariations(ctx context.Context, productID string) ([]model.Variation, error) {
	list := []model.Variation{}
	query := r.DB.Rebind(`SELECT * FROM product_variations WHERE product_id = ? ORDER BY position, id`)
	if err := r.DB.SelectContext(ctx, &list, query, productID); err != nil {
		return nil, err
	}
	return list, nil
}

const upsertVariationQuery = `
        INSERT INTO product_variations (
            id, product_id, key_tuple, attribute_hash, position, sku, price, sale_price,
            stock, enabled, is_virtual, downloadable, manage_stock, weight, dimensions,
            image, created_at, updated_at
        )
        VALUES (
            :id, :product_id, :key_tuple, :attribute_hash, :position, :sku, :price, :sale_price,
            :stock, :enabled, :is_virtual, :downloadable, :manage_stock, :weight, :dimensions,
            :image, :created_at, :updated_at
        )
        ON CONFLICT (id) DO UPDATE SET
            key_tuple = excluded.key_tuple,
            attribute_hash = excluded.attribute_hash,
            position = excluded.position,
            sku = excluded.sku,
            price = excluded.price,
            sale_price = excluded.sale_price,
            stock = excluded.stock,
            enabled = excluded.enabled,
            is_virtual = excluded.is_virtual,
            downloadable = excluded.downloadable,
            manage_stock = excluded.manage_stock,
            weight = excluded.weight,
            dimensions = excluded.dimensions,
            image = excluded.image,
            updated_at = excluded.updated_at
        WHERE product_variations.product_id = excluded.product_id
    `

// SaveVariations fills ProductID, Position, AttributeHash and timestamps on
// the elements of list as it stores them.
func (r *PGRepository) SaveVariations(ctx context.Context, p *model.Product, list []model.Variation) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := sqlx.NamedExecContext(ctx, tx, updateProductQuery, p)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	if len(ids) == 0 {
		_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM product_variations WHERE product_id = ?`), p.ID)
	} else {
		var query string
		var args []any
		query, args, err = sqlx.In(`DELETE FROM product_variations WHERE product_id = ? AND id NOT IN (?)`, p.ID, ids)
		if err == nil {
			_, err = tx.ExecContext(ctx, tx.Rebind(query), args...)
		}
	}
	if err != nil {
		return fmt.Errorf("delete stale variations: %w", err)
	}

	if err := upsertVariations(ctx, tx, p.ID, list); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertVariations(ctx context.Context, tx *sqlx.Tx, productID string, list []model.Variation) error {
	now := time.Now().UTC()
	for i := range list {
		v := &list[i]
		v.ProductID = productID
		v.Position = i
		v.AttributeHash = v.KeyTuple.Hash()
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		v.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, tx, upsertVariationQuery, v); err != nil {
			return fmt.Errorf("save variation %s: %w", v.ID, err)
		}
	}
	return nil
}
