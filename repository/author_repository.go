package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tuneshelf/model"
)

// AuthorRepository defines the interface for author data operations.
type AuthorRepository interface {
	GetOrCreateAuthor(ctx context.Context, name string) (*model.Author, error)
	GetAuthorByName(ctx context.Context, name string) (*model.Author, error)
}

// mysqlAuthorRepository implements AuthorRepository for MySQL.
type mysqlAuthorRepository struct {
	db *sql.DB
}

// NewMySQLAuthorRepository creates a new mysqlAuthorRepository.
func NewMySQLAuthorRepository(db *sql.DB) AuthorRepository {
	return &mysqlAuthorRepository{db: db}
}

// GetOrCreateAuthor returns the author with the given name, creating the
// row on first use. A concurrent create losing the race on the unique
// name falls back to reading the winner's row.
func (r *mysqlAuthorRepository) GetOrCreateAuthor(ctx context.Context, name string) (*model.Author, error) {
	author, err := r.GetAuthorByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if author != nil {
		return author, nil
	}

	res, err := r.db.ExecContext(ctx, "INSERT INTO authors (name) VALUES (?)", name)
	if err != nil {
		if isDuplicateErr(err) {
			return r.GetAuthorByName(ctx, name)
		}
		return nil, fmt.Errorf("failed to create author %s: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID for author: %w", err)
	}
	return &model.Author{ID: id, Name: name}, nil
}

// GetAuthorByName retrieves an author by name. Returns (nil, nil) when
// no such author exists.
func (r *mysqlAuthorRepository) GetAuthorByName(ctx context.Context, name string) (*model.Author, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM authors WHERE name = ?", name)

	author := &model.Author{}
	err := row.Scan(&author.ID, &author.Name, &author.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan author row for name %s: %w", name, err)
	}
	return author, nil
}
