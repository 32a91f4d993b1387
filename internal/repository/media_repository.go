// This file defines the MediaRepo, the single data access type behind both
// media kinds. Videos and songs share the media_items table; every query
// is parameterized by kind and scoped to the owner, so a caller can never
// observe or mutate another user's rows through this type.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/media-vault/internal/model"
)

// MediaRepo encapsulates all database queries related to media items.
type MediaRepo struct {
	db *sql.DB // underlying connection pool
}

// NewMediaRepo constructs a MediaRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewMediaRepo(db *sql.DB) *MediaRepo {
	return &MediaRepo{db: db}
}

// Create inserts a new media item. On success the item's ID field is
// populated with the auto-generated value and CreatedAt is read back so
// callers receive a fully populated record.
func (r *MediaRepo) Create(ctx context.Context, m *model.Media) error {
	const qInsert = `INSERT INTO media_items (owner_id, kind, title, description, artist, url, storage_key)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		m.OwnerID, m.Kind, m.Title, m.Description, m.Artist, m.URL, m.StorageKey)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	const qSelect = "SELECT created_at FROM media_items WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, m.ID).Scan(&m.CreatedAt)
}

// ListByOwner returns all media items of one kind owned by ownerID,
// newest first. An empty (non-nil) slice is returned when the user owns
// nothing.
func (r *MediaRepo) ListByOwner(ctx context.Context, ownerID uint64, kind string) ([]*model.Media, error) {
	const q = `SELECT id, owner_id, kind, title, description, artist, url, storage_key, created_at
	           FROM media_items WHERE owner_id = ? AND kind = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Media{}
	for rows.Next() {
		m := new(model.Media)
		var desc, artist sql.NullString
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Kind, &m.Title, &desc, &artist,
			&m.URL, &m.StorageKey, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Description = desc.String
		m.Artist = artist.String
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a media item of one kind regardless of owner. Callers
// that need ownership enforcement should compare OwnerID themselves or use
// DeleteByIDAndOwner.
func (r *MediaRepo) GetByID(ctx context.Context, id uint64, kind string) (*model.Media, error) {
	const q = `SELECT id, owner_id, kind, title, description, artist, url, storage_key, created_at
	           FROM media_items WHERE id = ? AND kind = ?`
	m := new(model.Media)
	var desc, artist sql.NullString
	err := r.db.QueryRowContext(ctx, q, id, kind).Scan(&m.ID, &m.OwnerID, &m.Kind,
		&m.Title, &desc, &artist, &m.URL, &m.StorageKey, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Description = desc.String
	m.Artist = artist.String
	return m, nil
}

// DeleteByIDAndOwner removes a media item if it exists and belongs to the
// given owner. It returns the deleted row so callers can release the
// associated storage object. ErrNotFound is returned when no such row
// exists; ErrForbidden when the row belongs to a different user.
func (r *MediaRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64, kind string) (*model.Media, error) {
	m, err := r.GetByID(ctx, id, kind)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	// Favorites reference this row; drop them first so the delete cannot
	// leave dangling join rows behind.
	if _, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE media_id = ?", id); err != nil {
		return nil, err
	}
	const q = "DELETE FROM media_items WHERE id = ? AND owner_id = ?"
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return nil, err
	}
	// The row may have vanished between the read and the delete.
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return m, nil
}
