// Package sqlite implements the gallery repo interface using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/picshelf/picshelf"
)

type repo struct {
	db     *sql.DB
	tables picshelf.Tables
}

// NewRepo returns a picshelf.GalleryRepo backed by the given database.
// Tables must already be migrated and validated.
func NewRepo(db *sql.DB, tables picshelf.Tables) (picshelf.GalleryRepo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &repo{db: db, tables: tables}, nil
}

func (r *repo) CreateImage(ctx context.Context, storageURL, name string) (picshelf.Image, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (storage_url, name) VALUES (?, ?)`, r.tables.Images)

	result, err := r.db.ExecContext(ctx, query, storageURL, name)
	if err != nil {
		return picshelf.Image{}, fmt.Errorf("create image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return picshelf.Image{}, fmt.Errorf("create image: last insert id: %w", err)
	}

	return picshelf.Image{ID: id, StorageURL: storageURL, Name: name}, nil
}

func (r *repo) ListImages(ctx context.Context) ([]picshelf.Image, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, storage_url, name FROM %s`, r.tables.Images)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

func (r *repo) GetImage(ctx context.Context, id int64) (picshelf.Image, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, storage_url, name FROM %s WHERE id = ?`, r.tables.Images)

	var img picshelf.Image
	err := r.db.QueryRowContext(ctx, query, id).Scan(&img.ID, &img.StorageURL, &img.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return picshelf.Image{}, picshelf.ErrNotFound
		}
		return picshelf.Image{}, fmt.Errorf("get image: %w", err)
	}

	return img, nil
}

func (r *repo) UpdateImageName(ctx context.Context, id int64, name string) (picshelf.Image, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s SET name = ? WHERE id = ?`, r.tables.Images)

	result, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		return picshelf.Image{}, fmt.Errorf("update image name: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return picshelf.Image{}, fmt.Errorf("update image name: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return picshelf.Image{}, fmt.Errorf("update image name: %w", picshelf.ErrNotFound)
	}

	return r.GetImage(ctx, id)
}

func (r *repo) DeleteImages(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete images: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE id IN (%s)`, r.tables.Images, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete images: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete images: rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete images: commit: %w", err)
	}

	return deleted, nil
}

func (r *repo) CreateUser(ctx context.Context, username, passwordHash string) (picshelf.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (username, password_hash) VALUES (?, ?)`, r.tables.Users)

	result, err := r.db.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return picshelf.User{}, fmt.Errorf("create user: %w", picshelf.ErrConflict)
		}
		return picshelf.User{}, fmt.Errorf("create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return picshelf.User{}, fmt.Errorf("create user: last insert id: %w", err)
	}

	return picshelf.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

func (r *repo) GetUserByUsername(ctx context.Context, username string) (picshelf.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, username, password_hash FROM %s WHERE username = ?`, r.tables.Users)

	var u picshelf.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return picshelf.User{}, picshelf.ErrNotFound
		}
		return picshelf.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}
