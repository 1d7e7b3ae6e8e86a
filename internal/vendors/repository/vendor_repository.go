package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"omegashop/internal/domain"
	"omegashop/internal/errors"
)

const duplicateEntryErrNo = 1062

type MySQLVendorRepository struct {
	db *sql.DB
}

func NewMySQLVendorRepository(db *sql.DB) *MySQLVendorRepository {
	return &MySQLVendorRepository{db: db}
}

func (r *MySQLVendorRepository) Insert(ctx context.Context, v domain.Vendor) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO vendors (name, slug, status, author_id) VALUES (?, ?, ?, ?)`,
		v.Name, v.Slug, v.Status, v.AuthorID,
	)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == duplicateEntryErrNo {
			return 0, errors.NewConflictError("vendor slug or author already exists")
		}
		return 0, fmt.Errorf("inserting vendor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLVendorRepository) Update(ctx context.Context, v domain.Vendor) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vendors SET name = ?, status = ? WHERE id = ?`,
		v.Name, v.Status, v.ID,
	)
	if err != nil {
		return fmt.Errorf("updating vendor: %w", err)
	}
	return nil
}

func (r *MySQLVendorRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vendors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting vendor: %w", err)
	}
	return nil
}

func (r *MySQLVendorRepository) FindByID(ctx context.Context, id int) (*domain.Vendor, error) {
	query := `SELECT id, name, slug, status, author_id, created_at, updated_at FROM vendors WHERE id = ?`

	var v domain.Vendor
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Slug, &v.Status, &v.AuthorID, &v.CreatedAt, &v.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("vendor not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying vendor: %w", err)
	}

	return &v, nil
}

func (r *MySQLVendorRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM vendors WHERE slug = ? LIMIT 1`, slug).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probing vendor slug: %w", err)
	}
	return true, nil
}
