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

type MySQLCategoryRepository struct {
	db *sql.DB
}

func NewMySQLCategoryRepository(db *sql.DB) *MySQLCategoryRepository {
	return &MySQLCategoryRepository{db: db}
}

func (r *MySQLCategoryRepository) Insert(ctx context.Context, c domain.Category) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, slug) VALUES (?, ?)`,
		c.Name, c.Slug,
	)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == duplicateEntryErrNo {
			return 0, errors.NewConflictError("category slug already exists")
		}
		return 0, fmt.Errorf("inserting category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLCategoryRepository) Update(ctx context.Context, c domain.Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, slug = ? WHERE id = ?`,
		c.Name, c.Slug, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

func (r *MySQLCategoryRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

func (r *MySQLCategoryRepository) FindByID(ctx context.Context, id int) (*domain.Category, error) {
	return r.findOne(ctx, `WHERE id = ?`, id)
}

func (r *MySQLCategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.findOne(ctx, `WHERE slug = ?`, slug)
}

func (r *MySQLCategoryRepository) findOne(ctx context.Context, where string, arg any) (*domain.Category, error) {
	query := `SELECT id, name, slug, created_at, updated_at FROM categories ` + where

	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}

	return &c, nil
}

func (r *MySQLCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *MySQLCategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE slug = ? LIMIT 1`, slug).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probing category slug: %w", err)
	}
	return true, nil
}
