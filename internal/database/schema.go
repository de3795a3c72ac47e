package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order; every statement is idempotent. Row and seat
// columns are named row_no/seat_no because ROW is reserved in MySQL 8.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_staff      BOOLEAN NOT NULL DEFAULT FALSE,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME(6) NOT NULL,
		revoked_at DATETIME(6) NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS planetarium_domes (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		description TEXT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS seat_rows (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		dome_id      BIGINT UNSIGNED NOT NULL,
		row_no       INT UNSIGNED NOT NULL,
		seats_in_row INT UNSIGNED NOT NULL,
		UNIQUE KEY uq_seat_rows_dome_row (dome_id, row_no),
		CONSTRAINT fk_seat_rows_dome FOREIGN KEY (dome_id) REFERENCES planetarium_domes (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS show_themes (
		id   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_show_themes_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS astronomy_shows (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		duration    INT UNSIGNED NOT NULL,
		image       VARCHAR(512) NULL,
		KEY idx_astronomy_shows_title (title)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS astronomy_show_themes (
		astronomy_show_id BIGINT UNSIGNED NOT NULL,
		show_theme_id     BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (astronomy_show_id, show_theme_id),
		CONSTRAINT fk_ast_show FOREIGN KEY (astronomy_show_id) REFERENCES astronomy_shows (id) ON DELETE CASCADE,
		CONSTRAINT fk_ast_theme FOREIGN KEY (show_theme_id) REFERENCES show_themes (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS show_sessions (
		id                BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		astronomy_show_id BIGINT UNSIGNED NOT NULL,
		planetarium_dome_id BIGINT UNSIGNED NOT NULL,
		show_begin        DATETIME(6) NOT NULL,
		KEY idx_show_sessions_begin (show_begin),
		CONSTRAINT fk_show_sessions_show FOREIGN KEY (astronomy_show_id) REFERENCES astronomy_shows (id) ON DELETE RESTRICT,
		CONSTRAINT fk_show_sessions_dome FOREIGN KEY (planetarium_dome_id) REFERENCES planetarium_domes (id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		KEY idx_reservations_user_created (user_id, created_at),
		CONSTRAINT fk_reservations_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		show_session_id BIGINT UNSIGNED NOT NULL,
		reservation_id  BIGINT UNSIGNED NOT NULL,
		row_no          INT UNSIGNED NOT NULL,
		seat_no         INT UNSIGNED NOT NULL,
		UNIQUE KEY uq_tickets_session_place (show_session_id, row_no, seat_no),
		CONSTRAINT fk_tickets_session FOREIGN KEY (show_session_id) REFERENCES show_sessions (id) ON DELETE RESTRICT,
		CONSTRAINT fk_tickets_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
