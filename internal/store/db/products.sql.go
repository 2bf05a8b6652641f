package db

import (
	"context"
)

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (name, description, price, amount)
VALUES ($1, $2, $3, $4)
RETURNING id, name, description, price, amount
`

type CreateProductParams struct {
	Name        string
	Description string
	Price       float64
	Amount      int64
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Amount,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.Amount,
	)
	return i, err
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products
SET name = $2, description = $3, price = $4, amount = $5
WHERE id = $1
RETURNING id, name, description, price, amount
`

type UpdateProductParams struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Amount      int64
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Amount,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.Amount,
	)
	return i, err
}

const findByID = `-- name: FindByID :one
SELECT id, name, description, price, amount FROM products
WHERE id = $1
`

func (q *Queries) FindByID(ctx context.Context, id int64) (Product, error) {
	row := q.db.QueryRow(ctx, findByID, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.Amount,
	)
	return i, err
}

const findAll = `-- name: FindAll :many
SELECT id, name, description, price, amount FROM products
ORDER BY id
`

func (q *Queries) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, findAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Price,
			&i.Amount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const existsByID = `-- name: ExistsByID :one
SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)
`

func (q *Queries) ExistsByID(ctx context.Context, id int64) (bool, error) {
	row := q.db.QueryRow(ctx, existsByID, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const deleteByID = `-- name: DeleteByID :execrows
DELETE FROM products
WHERE id = $1
`

func (q *Queries) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteByID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
