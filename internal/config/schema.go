package config

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Schema bootstrap. The unique key on booking_seats (bus_id, travel_date,
// seat_label) is load-bearing: it is the database-level guarantee that two
// non-cancelled bookings can never share a seat, whatever the application
// layer does. Seat rows are deleted on cancellation, so the index only
// ever covers active bookings.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(100) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'customer',
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS buses (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		source VARCHAR(255) NOT NULL,
		destination VARCHAR(255) NOT NULL,
		travel_date VARCHAR(10) NOT NULL,
		departure_time VARCHAR(5) NOT NULL,
		arrival_time VARCHAR(5) NOT NULL DEFAULT '',
		window_open_time VARCHAR(5) NOT NULL DEFAULT '',
		window_close_time VARCHAR(5) NOT NULL DEFAULT '',
		total_seats INT NOT NULL,
		arrangement VARCHAR(5) NOT NULL,
		first_row_seats INT NOT NULL,
		last_row_seats INT NOT NULL,
		fare_per_seat BIGINT NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_route_date (source, destination, travel_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bus_seats (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		bus_id BIGINT NOT NULL,
		seat_label VARCHAR(10) NOT NULL,
		row_no INT NOT NULL,
		pos INT NOT NULL,
		UNIQUE KEY uniq_bus_seat (bus_id, seat_label),
		KEY idx_bus (bus_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		code VARCHAR(36) NOT NULL,
		bus_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		agent_id BIGINT NULL,
		source VARCHAR(255) NOT NULL DEFAULT '',
		destination VARCHAR(255) NOT NULL DEFAULT '',
		travel_date VARCHAR(10) NOT NULL,
		seat_count INT NOT NULL,
		fare BIGINT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_code (code),
		KEY idx_bus_date (bus_id, travel_date),
		KEY idx_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS booking_seats (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT NOT NULL,
		bus_id BIGINT NOT NULL,
		travel_date VARCHAR(10) NOT NULL,
		seat_label VARCHAR(10) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_bus_date_seat (bus_id, travel_date, seat_label),
		KEY idx_booking (booking_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS booking_passengers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT NOT NULL,
		seat_label VARCHAR(10) NOT NULL,
		name VARCHAR(255) NOT NULL,
		age INT NOT NULL DEFAULT 0,
		gender VARCHAR(20) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_booking_seat (booking_id, seat_label),
		KEY idx_booking (booking_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}

// EnsureSchema creates missing tables at startup.
func EnsureSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}

// SeedAdmin inserts the bootstrap admin user from env when no row with
// that email exists yet. Credentials live in the users table from then on;
// the process environment is never consulted again for them.
func SeedAdmin(db *sql.DB, env Env) error {
	email := strings.TrimSpace(strings.ToLower(env.AdminEmail))
	if email == "" || env.AdminPassword == "" {
		return nil
	}

	var exists int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(env.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO users (name, email, phone, password_hash, role, status)
		VALUES ('Administrator', ?, '', ?, 'admin', 'active')
	`, email, string(hash))
	if err != nil {
		return err
	}
	log.Printf("seeded admin user %s", email)
	return nil
}
