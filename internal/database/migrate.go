package database

import (
	"context"
	"database/sql"
)

// Schema statements are idempotent so the server can run them on every
// startup. InnoDB enforces the owner foreign key; media rows can never
// reference a missing user.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS media_items (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		owner_id    BIGINT UNSIGNED NOT NULL,
		kind        VARCHAR(16) NOT NULL,
		title       VARCHAR(255) NOT NULL,
		description TEXT NULL,
		artist      VARCHAR(255) NULL,
		url         TEXT NOT NULL,
		storage_key VARCHAR(255) NOT NULL DEFAULT '',
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_media_owner_kind (owner_id, kind),
		CONSTRAINT fk_media_owner FOREIGN KEY (owner_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		media_id   BIGINT UNSIGNED NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_favorites_user_media (user_id, media_id),
		CONSTRAINT fk_fav_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_fav_media FOREIGN KEY (media_id) REFERENCES media_items(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the application tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
