package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates every table the application uses. Each
// statement is CREATE TABLE IF NOT EXISTS so the bootstrap is safe to
// run on every start and in tests against an already-seeded database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email                VARCHAR(255) NOT NULL,
		password_hash        VARCHAR(255) NOT NULL,
		role                 ENUM('CUSTOMER','ADMIN') NOT NULL DEFAULT 'CUSTOMER',
		loyalty_points       INT UNSIGNED NOT NULL DEFAULT 0,
		wallet_balance_cents BIGINT NOT NULL DEFAULT 0,
		is_active            TINYINT(1) NOT NULL DEFAULT 1,
		created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS movies (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title        VARCHAR(255) NOT NULL,
		description  TEXT NOT NULL,
		duration_min INT UNSIGNED NOT NULL,
		is_active    TINYINT(1) NOT NULL DEFAULT 1,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS halls (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		seat_rows  INT UNSIGNED NOT NULL,
		seat_cols  INT UNSIGNED NOT NULL,
		is_active  TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS seats (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		hall_id     BIGINT UNSIGNED NOT NULL,
		row_label   VARCHAR(8) NOT NULL,
		seat_number INT UNSIGNED NOT NULL,
		seat_type   ENUM('STANDARD','VIP','COUPLE') NOT NULL DEFAULT 'STANDARD',
		is_active   TINYINT(1) NOT NULL DEFAULT 1,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_seats_position (hall_id, row_label, seat_number),
		CONSTRAINT fk_seats_hall FOREIGN KEY (hall_id) REFERENCES halls(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS screenings (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		movie_id         BIGINT UNSIGNED NOT NULL,
		hall_id          BIGINT UNSIGNED NOT NULL,
		starts_at        DATETIME NOT NULL,
		base_price_cents BIGINT NOT NULL,
		is_active        TINYINT(1) NOT NULL DEFAULT 1,
		created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_screenings_movie (movie_id, starts_at),
		CONSTRAINT fk_screenings_movie FOREIGN KEY (movie_id) REFERENCES movies(id),
		CONSTRAINT fk_screenings_hall FOREIGN KEY (hall_id) REFERENCES halls(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id                 BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id            BIGINT UNSIGNED NOT NULL,
		screening_id       BIGINT UNSIGNED NOT NULL,
		status             ENUM('PENDING','CONFIRMED','CANCELLED','COMPLETED') NOT NULL DEFAULT 'PENDING',
		payment_status     ENUM('PENDING','PAID','FAILED','REFUNDED') NOT NULL DEFAULT 'PENDING',
		payment_method     VARCHAR(32) NULL,
		total_amount_cents BIGINT NOT NULL,
		discount_cents     BIGINT NOT NULL DEFAULT 0,
		final_amount_cents BIGINT NOT NULL,
		points_earned      INT UNSIGNED NOT NULL DEFAULT 0,
		points_used        INT UNSIGNED NOT NULL DEFAULT 0,
		created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_bookings_user (user_id, created_at),
		KEY idx_bookings_screening (screening_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_screening FOREIGN KEY (screening_id) REFERENCES screenings(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// The unique key on (screening_id, seat_id) is the double-booking
	// guard: two transactions inserting the same seat race on this
	// index and exactly one wins.
	`CREATE TABLE IF NOT EXISTS booking_seats (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		booking_id   BIGINT UNSIGNED NOT NULL,
		screening_id BIGINT UNSIGNED NOT NULL,
		seat_id      BIGINT UNSIGNED NOT NULL,
		price_cents  BIGINT NOT NULL,
		UNIQUE KEY uq_booking_seats_screening_seat (screening_id, seat_id),
		KEY idx_booking_seats_booking (booking_id),
		CONSTRAINT fk_booking_seats_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE,
		CONSTRAINT fk_booking_seats_seat FOREIGN KEY (seat_id) REFERENCES seats(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS concessions (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name         VARCHAR(100) NOT NULL,
		price_cents  BIGINT NOT NULL,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS booking_concessions (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		booking_id       BIGINT UNSIGNED NOT NULL,
		concession_id    BIGINT UNSIGNED NOT NULL,
		quantity         INT UNSIGNED NOT NULL,
		unit_price_cents BIGINT NOT NULL,
		KEY idx_booking_concessions_booking (booking_id),
		CONSTRAINT fk_booking_concessions_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE,
		CONSTRAINT fk_booking_concessions_item FOREIGN KEY (concession_id) REFERENCES concessions(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id       BIGINT UNSIGNED NOT NULL,
		booking_id    BIGINT UNSIGNED NULL,
		txn_type      ENUM('DEPOSIT','WITHDRAWAL','PAYMENT','REFUND') NOT NULL,
		amount_cents  BIGINT NOT NULL,
		balance_cents BIGINT NOT NULL,
		description   VARCHAR(255) NOT NULL DEFAULT '',
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_wallet_transactions_user (user_id, id),
		CONSTRAINT fk_wallet_transactions_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_wallet_transactions_booking FOREIGN KEY (booking_id) REFERENCES bookings(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// InitializeSchema creates all application tables when missing.
func InitializeSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	}
	return nil
}
