// Package postgres implements the gallery repo interface using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/picshelf/picshelf"
)

const uniqueViolationCode = "23505"

type Repo struct {
	pool   *pgxpool.Pool
	tables picshelf.Tables
}

func NewRepo(pool *pgxpool.Pool, tables picshelf.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, tables: tables}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) CreateImage(ctx context.Context, storageURL, name string) (picshelf.Image, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (storage_url, name)
		VALUES ($1, $2)
		RETURNING id, storage_url, name
	`, r.tables.Images)

	var img picshelf.Image
	err := r.pool.QueryRow(ctx, query, storageURL, name).Scan(&img.ID, &img.StorageURL, &img.Name)
	if err != nil {
		return picshelf.Image{}, fmt.Errorf("create image: %w", err)
	}

	return img, nil
}

func (r *Repo) ListImages(ctx context.Context) ([]picshelf.Image, error) {
	query := fmt.Sprintf(`SELECT id, storage_url, name FROM %s`, r.tables.Images)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	images := make([]picshelf.Image, 0)
	for rows.Next() {
		var img picshelf.Image
		if scanErr := rows.Scan(&img.ID, &img.StorageURL, &img.Name); scanErr != nil {
			return nil, fmt.Errorf("list images: scan: %w", scanErr)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list images: rows: %w", err)
	}

	return images, nil
}

func (r *Repo) GetImage(ctx context.Context, id int64) (picshelf.Image, error) {
	query := fmt.Sprintf(`SELECT id, storage_url, name FROM %s WHERE id = $1`, r.tables.Images)

	var img picshelf.Image
	err := r.pool.QueryRow(ctx, query, id).Scan(&img.ID, &img.StorageURL, &img.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return picshelf.Image{}, picshelf.ErrNotFound
		}
		return picshelf.Image{}, fmt.Errorf("get image: %w", err)
	}

	return img, nil
}

func (r *Repo) UpdateImageName(ctx context.Context, id int64, name string) (picshelf.Image, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1
		WHERE id = $2
		RETURNING id, storage_url, name
	`, r.tables.Images)

	var img picshelf.Image
	err := r.pool.QueryRow(ctx, query, name, id).Scan(&img.ID, &img.StorageURL, &img.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return picshelf.Image{}, fmt.Errorf("update image name: %w", picshelf.ErrNotFound)
		}
		return picshelf.Image{}, fmt.Errorf("update image name: %w", err)
	}

	return img, nil
}

func (r *Repo) DeleteImages(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Images)

	result, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete images: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *Repo) CreateUser(ctx context.Context, username, passwordHash string) (picshelf.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash
	`, r.tables.Users)

	var u picshelf.User
	err := r.pool.QueryRow(ctx, query, username, passwordHash).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return picshelf.User{}, fmt.Errorf("create user: %w", picshelf.ErrConflict)
		}
		return picshelf.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (picshelf.User, error) {
	query := fmt.Sprintf(`SELECT id, username, password_hash FROM %s WHERE username = $1`, r.tables.Users)

	var u picshelf.User
	err := r.pool.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return picshelf.User{}, picshelf.ErrNotFound
		}
		return picshelf.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}
