package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"omegashop/internal/domain"
	"omegashop/internal/errors"
)

const duplicateEntryErrNo = 1062

const productColumns = `id, name, slug, description, price, offer_price, discount, sku,
	       stock, status, vendor_id, category_id, created_at, updated_at`

type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

func (r *MySQLProductRepository) Insert(ctx context.Context, p domain.Product) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, slug, description, price, offer_price, discount, sku,
		                       stock, status, vendor_id, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Slug, p.Description, p.Price, p.OfferPrice, p.Discount, p.SKU,
		p.Stock, p.Status, p.VendorID, p.CategoryID,
	)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == duplicateEntryErrNo {
			return 0, errors.NewConflictError("product slug or sku already exists")
		}
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLProductRepository) Update(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET name = ?, description = ?, price = ?, offer_price = ?, discount = ?, sku = ?,
		     stock = ?, status = ?, category_id = ?
		 WHERE id = ?`,
		p.Name, p.Description, p.Price, p.OfferPrice, p.Discount, p.SKU,
		p.Stock, p.Status, p.CategoryID, p.ID,
	)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == duplicateEntryErrNo {
			return errors.NewConflictError("product sku already exists")
		}
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

func (r *MySQLProductRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

func (r *MySQLProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.findOne(ctx, `WHERE slug = ?`, "product not found", slug)
}

func (r *MySQLProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.findOne(ctx, `WHERE sku = ?`, "product not found", sku)
}

func (r *MySQLProductRepository) findOne(ctx context.Context, where, notFoundMsg string, arg any) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products %s`, productColumns, where)

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.OfferPrice, &p.Discount,
		&p.SKU, &p.Stock, &p.Status, &p.VendorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	return &p, nil
}

func (r *MySQLProductRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE id IN (%s)`,
		productColumns, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products by ids: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *MySQLProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC, id DESC`, productColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *MySQLProductRepository) FindByVendor(ctx context.Context, vendorID int) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE vendor_id = ? ORDER BY created_at DESC, id DESC`,
		productColumns)

	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("querying products by vendor: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *MySQLProductRepository) CountByCategory(ctx context.Context, categoryID int) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = ?`, categoryID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("counting products by category: %w", err)
	}
	return total, nil
}

// SlugExists and SKUExists are the existence probes this repository registers
// with the identifier generator.
func (r *MySQLProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM products WHERE slug = ? LIMIT 1`, slug)
}

func (r *MySQLProductRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM products WHERE sku = ? LIMIT 1`, sku)
}

func (r *MySQLProductRepository) exists(ctx context.Context, query, value string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, value).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probing existence: %w", err)
	}
	return true, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.OfferPrice, &p.Discount,
			&p.SKU, &p.Stock, &p.Status, &p.VendorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}
