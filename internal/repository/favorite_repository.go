package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/media-vault/internal/model"
)

// FavoriteRepo manages the favorites join table. Favorites reference songs
// only, and only the caller's own songs; the unique (user_id, media_id)
// constraint makes marking idempotent at the schema level too.
type FavoriteRepo struct {
	db *sql.DB
}

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Add marks a song as favorite for userID. It returns ErrNotFound when no
// song with that id exists and ErrForbidden when the song belongs to a
// different user. Marking an already-favorited song is a no-op.
func (r *FavoriteRepo) Add(ctx context.Context, userID, mediaID uint64) error {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id FROM media_items WHERE id = ? AND kind = ?",
		mediaID, model.KindSong).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, media_id) VALUES (?, ?)",
		userID, mediaID)
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

// Remove unmarks a favorite. Removing a song that was never marked is not
// an error; the end state is the same either way.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, mediaID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = ? AND media_id = ?",
		userID, mediaID)
	return err
}

// ListSongs returns the user's favorite songs, most recently marked first.
// An empty (non-nil) slice is returned when nothing is marked.
func (r *FavoriteRepo) ListSongs(ctx context.Context, userID uint64) ([]*model.Media, error) {
	const q = `SELECT m.id, m.owner_id, m.kind, m.title, m.description, m.artist, m.url, m.storage_key, m.created_at
	           FROM favorites f
	           JOIN media_items m ON m.id = f.media_id
	           WHERE f.user_id = ? ORDER BY f.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
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
